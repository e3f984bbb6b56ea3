package user

import (
	domain "classifieds-api/internal/domain/user"
)

func fromDBModel(model *User) *domain.User {
	var u = &domain.User{
		ID:           model.ID,
		Name:         model.Name,
		Surname:      model.Surname,
		Email:        model.Email,
		CPF:          model.CPF,
		Phone:        model.Phone,
		PasswordHash: model.PasswordHash,
		Role:         domain.Role(model.Role),
		PostalCode:   model.PostalCode,
		Listings:     model.Listings,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if u.Listings == nil {
		u.Listings = []string{}
	}

	return u
}

func fromDBModels(models Users) domain.Users {
	us := make(domain.Users, len(models))
	for idx, u := range models {
		us[idx] = fromDBModel(u)
	}

	return us
}
