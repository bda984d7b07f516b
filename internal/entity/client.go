package entity

import (
	"errors"
	"strings"
)

// ErrClientAlreadyExists: o CMS recusou a criação porque o email já existe.
var ErrClientAlreadyExists = errors.New("client already exists")

// Client é o usuário do CMS que representa o cliente final.
type Client struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Phone     string `json:"phone_number"`
	RoleID    string `json:"role"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
