package ports

import (
	"context"

	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/user"
)

type CategoryService interface {
	Create(ctx context.Context, c category.Category) (*category.Category, error)
	// Search returns the matching categories and the listings of theirs the subject may see.
	Search(ctx context.Context, subject user.Subject, f category.Filter) (category.Categories, listing.Listings, error)
	Update(ctx context.Context, id string, p category.Patch) (*category.Category, error)
	Delete(ctx context.Context, id string) error
}
