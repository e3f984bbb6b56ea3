package listing

import (
	"time"

	"github.com/shopspring/decimal"
)

type Visibility string

const (
	Public  Visibility = "publico"
	Private Visibility = "privado"
	Shared  Visibility = "compartilhado"
)

var MaxPrice = decimal.NewFromInt(1_000_000_000)

type (
	Listing struct {
		ID          string
		Title       string
		Description string
		Price       decimal.Decimal
		CategoryID  string
		OwnerID     string
		PublishedAt time.Time
		ExpiresAt   time.Time
		Visibility  Visibility
		SharedWith  []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Listings []*Listing

	// Patch carries the fields of a generic update. Nil means unchanged.
	Patch struct {
		Title       *string
		Description *string
		Price       *decimal.Decimal
		ExpiresAt   *time.Time
		CategoryID  *string
	}

	Filter struct {
		ID         string
		Title      string
		OwnerID    string
		CategoryID string
		Visibility Visibility
	}
)

func (v Visibility) Valid() bool {
	switch v {
	case Public, Private, Shared:
		return true
	}
	return false
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.ExpiresAt == nil && p.CategoryID == nil
}

func (p Patch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.ExpiresAt != nil {
		l.ExpiresAt = *p.ExpiresAt
	}
	if p.CategoryID != nil {
		l.CategoryID = *p.CategoryID
	}
}

func (ls Listings) IDs() []string {
	ids := make([]string, len(ls))
	for i, l := range ls {
		ids[i] = l.ID
	}
	return ids
}

// SharedUserIDs returns the distinct share targets across ls in first-seen order.
func (ls Listings) SharedUserIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range ls {
		for _, id := range l.SharedWith {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
