package user

import (
	"context"
)

// Repository lookups return (nil, nil) when nothing matches.
type Repository interface {
	FetchByID(ctx context.Context, id string) (*User, error)
	FetchByEmail(ctx context.Context, email string) (*User, error)
	FetchByEmailOrCPF(ctx context.Context, email, cpf string) (*User, error)
	FetchByIDs(ctx context.Context, ids []string) (Users, error)
	Search(ctx context.Context, f Filter) (Users, error)
	Create(ctx context.Context, u User) (*User, error)
	Update(ctx context.Context, u User) (*User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) (*User, error)

	AppendListing(ctx context.Context, userID, listingID string) error
	RemoveListing(ctx context.Context, userID, listingID string) error
	// RemoveListingsEverywhere strips the given listing keys from every user.
	RemoveListingsEverywhere(ctx context.Context, listingIDs []string) error
}
