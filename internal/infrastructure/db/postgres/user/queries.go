package user

const (
	columns = `id, name, surname, email, cpf, phone, password_hash, role, postal_code, listings, created_at, updated_at`

	SelectUserByID = `
		SELECT ` + columns + `
		FROM users
		WHERE id = $1
	`
	SelectUserByEmail = `
		SELECT ` + columns + `
		FROM users
		WHERE email = $1
	`
	SelectUserByEmailOrCPF = `
		SELECT ` + columns + `
		FROM users
		WHERE email = $1 OR cpf = $2
		LIMIT 1
	`
	SelectUsersByIDs = `
		SELECT ` + columns + `
		FROM users
		WHERE id = ANY($1::text[])
	`
	SearchUsers = `
		SELECT ` + columns + `
		FROM users
		WHERE ($1::text = '' OR id = $1::text)
		  AND ($2::text = '' OR strpos(lower(name), lower($2::text)) > 0)
		  AND ($3::text = '' OR email = $3::text)
		ORDER BY created_at, id
	`
	InsertUser = `
		INSERT INTO users (id, name, surname, email, cpf, phone, password_hash, role, postal_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + columns
	UpdateUserByID = `
		UPDATE users
		SET name = $2,
		    surname = $3,
		    email = $4,
		    cpf = $5,
		    phone = $6,
		    role = $7,
		    postal_code = $8,
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + columns
	UpdatePasswordByID = `
		UPDATE users
		SET password_hash = $2,
		    updated_at = now()
		WHERE id = $1
	`
	DeleteUserByID = `
		DELETE FROM users
		WHERE id = $1
		RETURNING ` + columns
	AppendListingRef = `
		UPDATE users
		SET listings = array_append(listings, $2::text),
		    updated_at = now()
		WHERE id = $1
	`
	RemoveListingRef = `
		UPDATE users
		SET listings = array_remove(listings, $2::text),
		    updated_at = now()
		WHERE id = $1
	`
	RemoveListingRefsEverywhere = `
		UPDATE users
		SET listings = ARRAY(
		        SELECT l FROM unnest(listings) WITH ORDINALITY AS t(l, n)
		        WHERE l <> ALL($1::text[])
		        ORDER BY n
		    ),
		    updated_at = now()
		WHERE listings && $1::text[]
	`
)
