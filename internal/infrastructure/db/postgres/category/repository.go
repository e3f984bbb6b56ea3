package category

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/infrastructure/db/postgres"
)

var ErrAlreadyExists = apperror.New(apperror.AlreadyExists, "a category with this name already exists")

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) category.Repository {
	return &Repository{db: db}
}

func scanCategory(row pgx.Row) (*Category, error) {
	c := new(Category)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.Listings,

		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *Repository) queryOne(ctx context.Context, sql string, args ...any) (*category.Category, error) {
	c, err := scanCategory(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(c), nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*category.Category, error) {
	return r.queryOne(ctx, SelectCategoryByID, id)
}

func (r *Repository) FetchByName(ctx context.Context, name string) (*category.Category, error) {
	return r.queryOne(ctx, SelectCategoryByName, name)
}

func (r *Repository) Search(ctx context.Context, f category.Filter) (category.Categories, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, SearchCategories, f.ID, f.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cs Categories
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(cs), nil
}

func (r *Repository) Create(ctx context.Context, req category.Category) (*category.Category, error) {
	return r.queryOne(ctx, InsertCategory, req.ID, req.Name, req.Description)
}

func (r *Repository) Update(ctx context.Context, req category.Category) (*category.Category, error) {
	return r.queryOne(ctx, UpdateCategoryByID, req.ID, req.Name, req.Description)
}

func (r *Repository) Delete(ctx context.Context, id string) (*category.Category, error) {
	return r.queryOne(ctx, DeleteCategoryByID, id)
}

func (r *Repository) AppendListing(ctx context.Context, categoryID, listingID string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, AppendListingRef, categoryID, listingID)
	return err
}

func (r *Repository) RemoveListing(ctx context.Context, categoryID, listingID string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, RemoveListingRef, categoryID, listingID)
	return err
}

func (r *Repository) RemoveListingsEverywhere(ctx context.Context, listingIDs []string) error {
	if len(listingIDs) == 0 {
		return nil
	}
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, RemoveListingRefsEverywhere, listingIDs)
	return err
}
