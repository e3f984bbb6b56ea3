package listing

import (
	"slices"

	domain "classifieds-api/internal/domain/listing"
	domainuser "classifieds-api/internal/domain/user"
	"classifieds-api/internal/interface/api/rest/dto/user"
)

func ToResponseListing(l domain.Listing) Listing {
	shared := slices.Clone(l.SharedWith)
	if shared == nil {
		shared = []string{}
	}

	return Listing{
		ID:               l.ID,
		Titulo:           l.Title,
		Descricao:        l.Description,
		Preco:            Price{Decimal: l.Price},
		CategoriaID:      l.CategoryID,
		UsuarioID:        l.OwnerID,
		DataPublicacao:   l.PublishedAt,
		DataExpiracao:    l.ExpiresAt,
		Visibilidade:     string(l.Visibility),
		CompartilhadoCom: shared,
	}
}

func ToResponseListings(ls domain.Listings) Listings {
	out := make(Listings, len(ls))
	for i, l := range ls {
		out[i] = ToResponseListing(*l)
	}

	return out
}

// ToPopulated resolves share keys against users; unknown keys are dropped.
func ToPopulated(ls domain.Listings, users domainuser.Users) []Populated {
	index := users.Index()
	out := make([]Populated, len(ls))
	for i, l := range ls {
		out[i] = Populated{
			ID:               l.ID,
			Titulo:           l.Title,
			Descricao:        l.Description,
			Preco:            Price{Decimal: l.Price},
			CategoriaID:      l.CategoryID,
			UsuarioID:        l.OwnerID,
			DataPublicacao:   l.PublishedAt,
			DataExpiracao:    l.ExpiresAt,
			Visibilidade:     string(l.Visibility),
			CompartilhadoCom: user.ToRefs(l.SharedWith, index),
		}
	}

	return out
}

func ToDomainListing(r Request) domain.Listing {
	l := domain.Listing{
		Title:       r.Titulo,
		Description: r.Descricao,
		CategoryID:  r.CategoriaID,
		OwnerID:     r.UsuarioID,
		Visibility:  domain.Visibility(r.Visibilidade),
		SharedWith:  r.CompartilhadoCom,
	}
	if r.Preco != nil {
		l.Price = *r.Preco
	}
	if r.DataExpiracao != nil {
		l.ExpiresAt = *r.DataExpiracao
	}

	return l
}

func ToDomainPatch(r PatchRequest) domain.Patch {
	return domain.Patch{
		Title:       r.Titulo,
		Description: r.Descricao,
		Price:       r.Preco,
		ExpiresAt:   r.DataExpiracao,
		CategoryID:  r.CategoriaID,
	}
}

func ToDomainFilter(q SearchQuery) domain.Filter {
	return domain.Filter{
		ID:         q.ID,
		Title:      q.Titulo,
		OwnerID:    q.UsuarioID,
		CategoryID: q.CategoriaID,
		Visibility: domain.Visibility(q.Visibilidade),
	}
}
