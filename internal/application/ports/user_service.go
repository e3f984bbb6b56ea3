package ports

import (
	"context"

	"classifieds-api/internal/domain/user"
)

type UserService interface {
	Register(ctx context.Context, u user.User, password string) (*user.User, error)
	CreateAdmin(ctx context.Context, u user.User, password string) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	Search(ctx context.Context, f user.Filter) (user.Users, error)
	Update(ctx context.Context, subject user.Subject, id string, p user.Patch) (*user.User, error)
	ChangePassword(ctx context.Context, subject user.Subject, id, oldPassword, newPassword string) error
	Delete(ctx context.Context, subject user.Subject, id string) error
}
