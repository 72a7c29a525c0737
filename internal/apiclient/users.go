package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/khalef-khalil/nkcommerce/internal/models"
)

// ObtainToken exchanges a username and password for a token. The endpoint
// is shared by the shopper and admin login flows.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (string, error) {
	var out models.TokenResponse
	err := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/users/public/token/",
		Body:   models.LoginRequest{Username: username, Password: password},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: token endpoint returned no token", ErrUnexpected)
	}
	return out.Token, nil
}

// Register creates a shopper account and returns its identity and token.
// An empty confirmation is filled from the password.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error) {
	if req.Password2 == "" {
		req.Password2 = req.Password
	}
	var out models.Registration
	err := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/users/public/register/",
		Body:   req,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: register endpoint returned no token", ErrUnexpected)
	}
	return &out, nil
}

// FetchIdentity loads the shopper identity bound to credential.
func (c *Client) FetchIdentity(ctx context.Context, credential string) (*models.Identity, error) {
	var out models.Identity
	if err := c.Do(ctx, Call{Path: "/users/me/", Credential: credential}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchAdminIdentity loads /users/me/ with the privilege fields.
func (c *Client) FetchAdminIdentity(ctx context.Context, credential string) (*models.AdminIdentity, error) {
	var out models.AdminIdentity
	if err := c.Do(ctx, Call{Path: "/users/me/", Credential: credential}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateIdentity applies a partial profile update.
func (c *Client) UpdateIdentity(ctx context.Context, credential string, patch models.ProfileInput) (*models.Identity, error) {
	var out models.Identity
	err := c.Do(ctx, Call{
		Method:     http.MethodPatch,
		Path:       "/users/me/",
		Body:       patch,
		Credential: credential,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
