package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID    int64  `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	// PasswordHash is NULL for externally provisioned accounts; those
	// cannot sign in with credentials.
	PasswordHash *string   `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Redirect is an optional post-sign-in callback target. Cross-origin
	// targets are replaced with the role default.
	Redirect string `json:"redirect,omitempty"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	Redirect string    `json:"redirect"`
	User     *UserInfo `json:"user"`
}

type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Valid user roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var validRoles = map[string]bool{
	RoleUser:  true,
	RoleAdmin: true,
}

func IsValidRole(role string) bool {
	return validRoles[role]
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Redirect = strings.TrimSpace(r.Redirect)
}

func (r *LoginRequest) Validate(minPasswordLength int) error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !IsValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
}
