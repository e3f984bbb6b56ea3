package services

import (
	"context"

	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/user"
)

// CrossRef keeps the back-reference arrays on users and categories in step
// with the listing rows. Callers run it inside a transaction.
type CrossRef struct {
	users      user.Repository
	categories category.Repository
	listings   listing.Repository
}

func NewCrossRef(users user.Repository, categories category.Repository, listings listing.Repository) *CrossRef {
	return &CrossRef{users: users, categories: categories, listings: listings}
}

func (x *CrossRef) Link(ctx context.Context, l *listing.Listing) error {
	if err := x.users.AppendListing(ctx, l.OwnerID, l.ID); err != nil {
		return err
	}
	return x.categories.AppendListing(ctx, l.CategoryID, l.ID)
}

func (x *CrossRef) Unlink(ctx context.Context, l *listing.Listing) error {
	if err := x.categories.RemoveListing(ctx, l.CategoryID, l.ID); err != nil {
		return err
	}
	return x.users.RemoveListing(ctx, l.OwnerID, l.ID)
}

// Move re-homes the listing's key when its category changed.
func (x *CrossRef) Move(ctx context.Context, listingID, from, to string) error {
	if from == to {
		return nil
	}
	if err := x.categories.RemoveListing(ctx, from, listingID); err != nil {
		return err
	}
	return x.categories.AppendListing(ctx, to, listingID)
}

// PurgeCategory deletes the category's listings and their keys on owners.
func (x *CrossRef) PurgeCategory(ctx context.Context, categoryID string) ([]string, error) {
	ids, err := x.listings.DeleteByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err = x.users.RemoveListingsEverywhere(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// PurgeOwner deletes the user's listings, their keys on categories and the
// user's key from every share list.
func (x *CrossRef) PurgeOwner(ctx context.Context, ownerID string) ([]string, error) {
	ids, err := x.listings.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err = x.categories.RemoveListingsEverywhere(ctx, ids); err != nil {
		return nil, err
	}
	if err = x.listings.RemoveShareTarget(ctx, ownerID); err != nil {
		return nil, err
	}
	return ids, nil
}
