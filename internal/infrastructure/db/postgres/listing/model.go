package listing

import "time"

type (
	Listing struct {
		ID          string
		Title       string
		Description string
		// Price is scanned from numeric::text to keep it exact.
		Price       string
		CategoryID  string
		OwnerID     string
		PublishedAt time.Time
		ExpiresAt   time.Time
		Visibility  string
		SharedWith  []string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Listings []*Listing
)
