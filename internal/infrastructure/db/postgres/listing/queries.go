package listing

const (
	columns = `id, title, description, price::text, category_id, owner_id, published_at, expires_at, visibility, shared_with, created_at, updated_at`

	SelectListingByID = `
		SELECT ` + columns + `
		FROM listings
		WHERE id = $1
	`
	SelectListingByTitleAndOwner = `
		SELECT ` + columns + `
		FROM listings
		WHERE title = $1 AND owner_id = $2
	`
	SelectListingsByIDs = `
		SELECT ` + columns + `
		FROM listings
		WHERE id = ANY($1::text[])
		ORDER BY created_at, id
	`
	SearchListings = `
		SELECT ` + columns + `
		FROM listings
		WHERE ($1::text = '' OR id = $1::text)
		  AND ($2::text = '' OR strpos(lower(title), lower($2::text)) > 0)
		  AND ($3::text = '' OR owner_id = $3::text)
		  AND ($4::text = '' OR category_id = $4::text)
		  AND ($5::text = '' OR visibility = $5::text)
		ORDER BY created_at, id
	`
	InsertListing = `
		INSERT INTO listings (id, title, description, price, category_id, owner_id, published_at, expires_at, visibility, shared_with)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10::text[])
		RETURNING ` + columns
	UpdateListingByID = `
		UPDATE listings
		SET title = $2,
		    description = $3,
		    price = $4::numeric,
		    category_id = $5,
		    expires_at = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	UpdateVisibilityByID = `
		UPDATE listings
		SET visibility = $2,
		    shared_with = $3::text[],
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	UpdateSharedWithByID = `
		UPDATE listings
		SET shared_with = $2::text[],
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	DeleteListingByID = `
		DELETE FROM listings
		WHERE id = $1
	`
	DeleteListingsByCategory = `
		DELETE FROM listings
		WHERE category_id = $1
		RETURNING id
	`
	DeleteListingsByOwner = `
		DELETE FROM listings
		WHERE owner_id = $1
		RETURNING id
	`
	// A shared listing that loses its last target falls back to private.
	RemoveShareTargetEverywhere = `
		UPDATE listings
		SET shared_with = array_remove(shared_with, $1::text),
		    visibility = CASE
		        WHEN visibility = 'compartilhado' AND cardinality(array_remove(shared_with, $1::text)) = 0 THEN 'privado'
		        ELSE visibility
		    END,
		    updated_at = now()
		WHERE $1::text = ANY(shared_with)
	`
)
