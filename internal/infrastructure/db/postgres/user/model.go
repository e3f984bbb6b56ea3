package user

import (
	"time"
)

type (
	User struct {
		ID           string
		Name         string
		Surname      string
		Email        string
		CPF          string
		Phone        string
		PasswordHash string
		Role         string
		PostalCode   string
		Listings     []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)
