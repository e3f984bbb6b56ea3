package category

const (
	columns = `id, name, description, listings, created_at, updated_at`

	SelectCategoryByID = `
		SELECT ` + columns + `
		FROM categories
		WHERE id = $1
	`
	SelectCategoryByName = `
		SELECT ` + columns + `
		FROM categories
		WHERE name = $1
	`
	SearchCategories = `
		SELECT ` + columns + `
		FROM categories
		WHERE ($1::text = '' OR id = $1::text)
		  AND ($2::text = '' OR strpos(lower(name), lower($2::text)) > 0)
		ORDER BY name
	`
	InsertCategory = `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING ` + columns
	UpdateCategoryByID = `
		UPDATE categories
		SET name = $2,
		    description = $3,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	DeleteCategoryByID = `
		DELETE FROM categories
		WHERE id = $1
		RETURNING ` + columns
	AppendListingRef = `
		UPDATE categories
		SET listings = array_append(listings, $2::text),
		    updated_at = now()
		WHERE id = $1
	`
	RemoveListingRef = `
		UPDATE categories
		SET listings = array_remove(listings, $2::text),
		    updated_at = now()
		WHERE id = $1
	`
	RemoveListingRefsEverywhere = `
		UPDATE categories
		SET listings = ARRAY(
		        SELECT l FROM unnest(listings) WITH ORDINALITY AS t(l, n)
		        WHERE l <> ALL($1::text[])
		        ORDER BY n
		    ),
		    updated_at = now()
		WHERE listings && $1::text[]
	`
)
