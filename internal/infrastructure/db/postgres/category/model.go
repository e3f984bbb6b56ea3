package category

import "time"

type (
	Category struct {
		ID          string
		Name        string
		Description string
		Listings    []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Categories []*Category
)
