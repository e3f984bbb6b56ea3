package category

import (
	domain "classifieds-api/internal/domain/category"
)

func fromDBModel(model *Category) *domain.Category {
	c := &domain.Category{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Listings:    model.Listings,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if c.Listings == nil {
		c.Listings = []string{}
	}

	return c
}

func fromDBModels(models Categories) domain.Categories {
	cs := make(domain.Categories, len(models))
	for idx, c := range models {
		cs[idx] = fromDBModel(c)
	}

	return cs
}
