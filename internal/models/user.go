package models

// Profile holds the shopper's delivery details kept by the backend.
type Profile struct {
	Telephone string  `json:"telephone"`
	Adresse   string  `json:"adresse"`
	Ville     string  `json:"ville"`
	Photo     *string `json:"photo"`
}

// Identity is the shopper profile returned by /users/me/.
type Identity struct {
	ID        int      `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Profil    *Profile `json:"profil,omitempty"`
}

// Clone returns a deep copy so snapshots never share the profile pointer.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Profil != nil {
		p := *i.Profil
		if p.Photo != nil {
			photo := *p.Photo
			p.Photo = &photo
		}
		c.Profil = &p
	}
	return &c
}

// AdminIdentity is the /users/me/ payload as read by the back office.
// The privilege fields are inconsistently typed by the backend, see Flag.
type AdminIdentity struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsStaff     Flag   `json:"is_staff"`
	IsSuperuser Flag   `json:"is_superuser"`
	IsAdmin     Flag   `json:"is_admin"`
	Role        string `json:"role,omitempty"`
}

// Registration is the public register endpoint response.
type Registration struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// TokenResponse is returned by /users/public/token/.
type TokenResponse struct {
	Token string `json:"token"`
}
