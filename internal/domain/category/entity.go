package category

import "time"

type (
	Category struct {
		ID          string
		Name        string
		Description string
		// Listings holds listing back-references; the listing row is authoritative.
		Listings []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Categories []*Category

	Patch struct {
		Name        *string
		Description *string
	}

	Filter struct {
		ID   string
		Name string
	}
)

func (p Patch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
