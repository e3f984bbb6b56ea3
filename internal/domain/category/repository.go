package category

import "context"

type Repository interface {
	FetchByID(ctx context.Context, id string) (*Category, error)
	FetchByName(ctx context.Context, name string) (*Category, error)
	Search(ctx context.Context, f Filter) (Categories, error)
	Create(ctx context.Context, c Category) (*Category, error)
	Update(ctx context.Context, c Category) (*Category, error)
	Delete(ctx context.Context, id string) (*Category, error)

	AppendListing(ctx context.Context, categoryID, listingID string) error
	RemoveListing(ctx context.Context, categoryID, listingID string) error
	RemoveListingsEverywhere(ctx context.Context, listingIDs []string) error
}
