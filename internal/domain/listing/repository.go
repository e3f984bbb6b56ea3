package listing

import "context"

type Repository interface {
	FetchByID(ctx context.Context, id string) (*Listing, error)
	FetchByTitleAndOwner(ctx context.Context, title, ownerID string) (*Listing, error)
	FetchByIDs(ctx context.Context, ids []string) (Listings, error)
	Search(ctx context.Context, f Filter) (Listings, error)
	Create(ctx context.Context, l Listing) (*Listing, error)
	Update(ctx context.Context, l Listing) (*Listing, error)
	UpdateVisibility(ctx context.Context, id string, v Visibility, sharedWith []string) (*Listing, error)
	UpdateSharedWith(ctx context.Context, id string, sharedWith []string) (*Listing, error)
	Delete(ctx context.Context, id string) error

	// DeleteByCategory and DeleteByOwner return the keys of the removed rows.
	DeleteByCategory(ctx context.Context, categoryID string) ([]string, error)
	DeleteByOwner(ctx context.Context, ownerID string) ([]string, error)
	RemoveShareTarget(ctx context.Context, userID string) error
}
