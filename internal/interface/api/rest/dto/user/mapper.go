package user

import (
	"slices"

	"classifieds-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	var u = User{
		ID:        uDomain.ID,
		Nome:      uDomain.Name,
		Sobrenome: uDomain.Surname,
		Email:     uDomain.Email,
		CPF:       uDomain.CPF,
		Telefone:  uDomain.Phone,
		Papel:     string(uDomain.Role),
		CEP:       uDomain.PostalCode,
		Anuncios:  slices.Clone(uDomain.Listings),
		CreatedAt: uDomain.CreatedAt,
		UpdatedAt: uDomain.UpdatedAt,
	}
	if u.Anuncios == nil {
		u.Anuncios = []string{}
	}

	return u
}

func ToResponseUsers(usDomain user.Users) Users {
	us := make(Users, len(usDomain))
	for idx, u := range usDomain {
		us[idx] = ToResponseUser(*u)
	}

	return us
}

func ToDomainUser(r Request) user.User {
	return user.User{
		Name:       r.Nome,
		Surname:    r.Sobrenome,
		Email:      r.Email,
		CPF:        r.CPF,
		Phone:      r.Telefone,
		PostalCode: r.CEP,
	}
}

func ToDomainPatch(r PatchRequest) user.Patch {
	p := user.Patch{
		Name:       r.Nome,
		Surname:    r.Sobrenome,
		Email:      r.Email,
		CPF:        r.CPF,
		Phone:      r.Telefone,
		PostalCode: r.CEP,
	}
	if r.Papel != nil {
		role := user.Role(*r.Papel)
		p.Role = &role
	}

	return p
}

func ToDomainFilter(q SearchQuery) user.Filter {
	return user.Filter{ID: q.ID, Name: q.Nome, Email: q.Email}
}

// ToRefs keeps the order of ids and skips keys missing from index.
func ToRefs(ids []string, index map[string]*user.User) []Ref {
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		if u, ok := index[id]; ok {
			refs = append(refs, Ref{ID: u.ID, Nome: u.Name})
		}
	}

	return refs
}
