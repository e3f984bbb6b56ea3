package ports

import (
	"context"

	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/user"
)

type ListingService interface {
	Create(ctx context.Context, subject user.Subject, l listing.Listing) (*listing.Listing, error)
	// Search also returns the users referenced by the listings' share lists.
	Search(ctx context.Context, subject user.Subject, f listing.Filter) (listing.Listings, user.Users, error)
	ListByOwner(ctx context.Context, subject user.Subject, ownerID string) (listing.Listings, error)
	ListByCategory(ctx context.Context, subject user.Subject, categoryID string) (listing.Listings, error)
	ChangeVisibility(ctx context.Context, subject user.Subject, id string, v listing.Visibility, sharedWith []string) (*listing.Listing, error)
	AddShareTargets(ctx context.Context, subject user.Subject, id string, targets []string) (*listing.Listing, error)
	Update(ctx context.Context, subject user.Subject, id string, p listing.Patch) (*listing.Listing, error)
	Delete(ctx context.Context, subject user.Subject, id string) error
}
