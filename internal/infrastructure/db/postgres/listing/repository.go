package listing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/infrastructure/db/postgres"
)

var ErrAlreadyExists = apperror.New(apperror.AlreadyExists, "this user already has a listing with the same title")

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) listing.Repository {
	return &Repository{db: db}
}

func scanListing(row pgx.Row) (*Listing, error) {
	l := new(Listing)
	err := row.Scan(
		&l.ID,
		&l.Title,
		&l.Description,
		&l.Price,
		&l.CategoryID,
		&l.OwnerID,
		&l.PublishedAt,
		&l.ExpiresAt,
		&l.Visibility,
		&l.SharedWith,

		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (r *Repository) queryOne(ctx context.Context, sql string, args ...any) (*listing.Listing, error) {
	l, err := scanListing(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(l)
}

func (r *Repository) queryMany(ctx context.Context, sql string, args ...any) (listing.Listings, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ls Listings
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		ls = append(ls, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(ls)
}

func (r *Repository) collectIDs(ctx context.Context, sql string, arg string) ([]string, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	return nonNil(ids), nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*listing.Listing, error) {
	return r.queryOne(ctx, SelectListingByID, id)
}

func (r *Repository) FetchByTitleAndOwner(ctx context.Context, title, ownerID string) (*listing.Listing, error) {
	return r.queryOne(ctx, SelectListingByTitleAndOwner, title, ownerID)
}

func (r *Repository) FetchByIDs(ctx context.Context, ids []string) (listing.Listings, error) {
	if len(ids) == 0 {
		return listing.Listings{}, nil
	}
	return r.queryMany(ctx, SelectListingsByIDs, ids)
}

func (r *Repository) Search(ctx context.Context, f listing.Filter) (listing.Listings, error) {
	return r.queryMany(ctx, SearchListings, f.ID, f.Title, f.OwnerID, f.CategoryID, string(f.Visibility))
}

func (r *Repository) Create(ctx context.Context, req listing.Listing) (*listing.Listing, error) {
	return r.queryOne(ctx, InsertListing,
		req.ID,
		req.Title,
		req.Description,
		req.Price.String(),
		req.CategoryID,
		req.OwnerID,
		req.PublishedAt,
		req.ExpiresAt,
		string(req.Visibility),
		nonNil(req.SharedWith),
	)
}

func (r *Repository) Update(ctx context.Context, req listing.Listing) (*listing.Listing, error) {
	return r.queryOne(ctx, UpdateListingByID,
		req.ID,
		req.Title,
		req.Description,
		req.Price.String(),
		req.CategoryID,
		req.ExpiresAt,
	)
}

func (r *Repository) UpdateVisibility(ctx context.Context, id string, v listing.Visibility, sharedWith []string) (*listing.Listing, error) {
	return r.queryOne(ctx, UpdateVisibilityByID, id, string(v), nonNil(sharedWith))
}

func (r *Repository) UpdateSharedWith(ctx context.Context, id string, sharedWith []string) (*listing.Listing, error) {
	return r.queryOne(ctx, UpdateSharedWithByID, id, nonNil(sharedWith))
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, DeleteListingByID, id)
	return err
}

func (r *Repository) DeleteByCategory(ctx context.Context, categoryID string) ([]string, error) {
	return r.collectIDs(ctx, DeleteListingsByCategory, categoryID)
}

func (r *Repository) DeleteByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return r.collectIDs(ctx, DeleteListingsByOwner, ownerID)
}

func (r *Repository) RemoveShareTarget(ctx context.Context, userID string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, RemoveShareTargetEverywhere, userID)
	return err
}
