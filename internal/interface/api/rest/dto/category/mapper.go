package category

import (
	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	listingdto "classifieds-api/internal/interface/api/rest/dto/listing"
)

// ToResponseCategories resolves each category's back-references against
// visible; unresolved or hidden references are skipped.
func ToResponseCategories(cs category.Categories, visible listing.Listings) Categories {
	index := make(map[string]*listing.Listing, len(visible))
	for _, l := range visible {
		index[l.ID] = l
	}

	out := make(Categories, len(cs))
	for i, c := range cs {
		out[i] = ToResponseCategory(*c, index)
	}

	return out
}

func ToResponseCategory(c category.Category, index map[string]*listing.Listing) Category {
	summaries := make([]ListingSummary, 0, len(c.Listings))
	for _, id := range c.Listings {
		l, ok := index[id]
		if !ok {
			continue
		}
		summaries = append(summaries, ListingSummary{
			Titulo:    l.Title,
			Descricao: l.Description,
			Preco:     listingdto.Price{Decimal: l.Price},
		})
	}

	return Category{
		ID:        c.ID,
		Nome:      c.Name,
		Descricao: c.Description,
		Anuncios:  summaries,
	}
}

func ToDomainCategory(r Request) category.Category {
	return category.Category{Name: r.Nome, Description: r.Descricao}
}

func ToDomainPatch(r PatchRequest) category.Patch {
	return category.Patch{Name: r.Nome, Description: r.Descricao}
}

func ToDomainFilter(q SearchQuery) category.Filter {
	return category.Filter{ID: q.ID, Name: q.Nome}
}
