package credentials

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// CookieJar is the minimal cookie access a request-bound store needs.
type CookieJar interface {
	Cookie(name string) string
	SetCookie(name, value string, expires time.Time)
	ClearCookie(name string)
}

// CookieStore keeps each credential in its scope cookie, sealed as an
// HS256 JWT so that a forged or edited cookie reads as absent.
type CookieStore struct {
	jar    CookieJar
	secret []byte
	now    func() time.Time
}

// NewCookieStore binds a CookieStore to one request's cookies.
func NewCookieStore(jar CookieJar, secret string) *CookieStore {
	return &CookieStore{
		jar:    jar,
		secret: []byte(secret),
		now:    time.Now,
	}
}

type sealedClaims struct {
	Scope Scope  `json:"scp"`
	Token string `json:"tok"`
	jwt.StandardClaims
}

// Get unseals the scope cookie. Invalid, expired or mis-scoped cookies are
// reported as absent.
func (s *CookieStore) Get(scope Scope) (string, bool) {
	raw := s.jar.Cookie(scope.CookieName())
	if raw == "" {
		return "", false
	}
	claims, err := s.unseal(raw)
	if err != nil {
		log.Printf("Discarding %s cookie: %v", scope.CookieName(), err)
		return "", false
	}
	if claims.Scope != scope || claims.Token == "" {
		return "", false
	}
	return claims.Token, true
}

// Set seals value and writes the scope cookie with the scope's expiry.
func (s *CookieStore) Set(scope Scope, value string) error {
	if err := scope.validate(); err != nil {
		return err
	}
	now := s.now()
	expires := now.Add(scope.TTL())
	sealed, err := s.seal(scope, value, now, expires)
	if err != nil {
		return err
	}
	s.jar.SetCookie(scope.CookieName(), sealed, expires)
	return nil
}

// Clear expires the scope cookie.
func (s *CookieStore) Clear(scope Scope) error {
	if err := scope.validate(); err != nil {
		return err
	}
	s.jar.ClearCookie(scope.CookieName())
	return nil
}

func (s *CookieStore) seal(scope Scope, value string, issued, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sealedClaims{
		Scope: scope,
		Token: value,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  issued.Unix(),
			ExpiresAt: expires.Unix(),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to seal %s credential: %w", scope, err)
	}
	return signed, nil
}

func (s *CookieStore) unseal(raw string) (*sealedClaims, error) {
	claims := &sealedClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sealed credential: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid sealed credential")
	}
	return claims, nil
}
