package listing

import (
	"fmt"

	"github.com/shopspring/decimal"

	domain "classifieds-api/internal/domain/listing"
)

func fromDBModel(model *Listing) (*domain.Listing, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, fmt.Errorf("listing %s: bad price %q: %w", model.ID, model.Price, err)
	}

	l := &domain.Listing{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Price:       price,
		CategoryID:  model.CategoryID,
		OwnerID:     model.OwnerID,
		PublishedAt: model.PublishedAt,
		ExpiresAt:   model.ExpiresAt,
		Visibility:  domain.Visibility(model.Visibility),
		SharedWith:  model.SharedWith,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if l.SharedWith == nil {
		l.SharedWith = []string{}
	}

	return l, nil
}

func fromDBModels(models Listings) (domain.Listings, error) {
	ls := make(domain.Listings, len(models))
	for idx, m := range models {
		l, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		ls[idx] = l
	}

	return ls, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
