package model

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is the identity snapshot returned by the auth and user endpoints and
// persisted next to the credential.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Rating         int       `json:"rating"`
	ProblemsSolved int       `json:"problemsSolved"`
	Role           string    `json:"role"`
	CreatedAt      Timestamp `json:"createdAt"`
	LastLoginAt    Timestamp `json:"lastLoginAt"`
}

// Clone returns a copy that callers may keep without sharing state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type LoginRequest struct {
	Username string `json:"username"` // Can be username or email
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
