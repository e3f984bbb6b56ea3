package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/user"
)

var ErrInvalidCredentials = apperror.New(apperror.CredentialRejected, "invalid email or password")

type AuthService struct {
	users       user.Repository
	credentials ports.Credentials
}

func NewAuthService(users user.Repository, credentials ports.Credentials) ports.Auth {
	return &AuthService{
		users:       users,
		credentials: credentials,
	}
}

// Login returns a signed token for the user matching email and password.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := as.users.FetchByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return as.credentials.Issue(u.ID, string(u.Role))
}
