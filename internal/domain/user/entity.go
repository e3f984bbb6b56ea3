package user

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "usuario"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

type (
	User struct {
		ID           string
		Name         string
		Surname      string
		Email        string
		CPF          string
		Phone        string
		PasswordHash string
		Role         Role
		PostalCode   string
		// Listings holds listing back-references; the listing row is authoritative.
		Listings []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User

	// Patch carries the fields of a generic profile update. Nil means unchanged.
	Patch struct {
		Name       *string
		Surname    *string
		Email      *string
		CPF        *string
		Phone      *string
		Role       *Role
		PostalCode *string
	}

	Filter struct {
		ID    string
		Name  string
		Email string
	}

	// Subject is the authenticated caller taken from a verified credential.
	Subject struct {
		ID   string
		Role Role
	}
)

func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

// CanManage reports whether s may update or delete the profile with the given id.
func (s Subject) CanManage(id string) bool { return s.IsAdmin() || s.ID == id }

func (p Patch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.CPF != nil {
		u.CPF = *p.CPF
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PostalCode != nil {
		u.PostalCode = *p.PostalCode
	}
}

func (us Users) Index() map[string]*User {
	m := make(map[string]*User, len(us))
	for _, u := range us {
		m[u.ID] = u
	}
	return m
}
