package models

// LoginRequest is shared by the shopper and admin login forms.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a shopper account. Password2 is the confirmation
// the backend requires; forms may leave it empty.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"omitempty,eqfield=Password"`
}

// ProfileInput is a partial /users/me/ update. Nil fields are left untouched.
type ProfileInput struct {
	Email     *string       `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string       `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string       `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Profil    *ProfileFields `json:"profil,omitempty"`
}

// ProfileFields carries the nested profil fields of a profile update.
type ProfileFields struct {
	Telephone *string `json:"telephone,omitempty" validate:"omitempty,max=30"`
	Adresse   *string `json:"adresse,omitempty" validate:"omitempty,max=500"`
	Ville     *string `json:"ville,omitempty" validate:"omitempty,max=100"`
}

// AddItemRequest adds a product to the cart.
type AddItemRequest struct {
	ProduitID int `json:"produit_id" validate:"required,gt=0"`
	Quantite  int `json:"quantite" validate:"required,gt=0"`
}

// QuantityRequest sets the quantity of an existing cart line.
type QuantityRequest struct {
	Quantite int `json:"quantite" validate:"required,gt=0"`
}
