package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/db/postgres"
)

var ErrAlreadyExists = apperror.New(apperror.AlreadyExists, "a user with this email or cpf already exists")

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Surname,
		&u.Email,
		&u.CPF,
		&u.Phone,
		&u.PasswordHash,
		&u.Role,
		&u.PostalCode,
		&u.Listings,

		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *Repository) queryOne(ctx context.Context, sql string, args ...any) (*user.User, error) {
	u, err := scanUser(postgres.Conn(ctx, r.db).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if postgres.IsPgUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) queryMany(ctx context.Context, sql string, args ...any) (user.Users, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var us Users
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(us), nil
}

func (r *Repository) FetchByID(ctx context.Context, id string) (*user.User, error) {
	return r.queryOne(ctx, SelectUserByID, id)
}

func (r *Repository) FetchByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.queryOne(ctx, SelectUserByEmail, email)
}

func (r *Repository) FetchByEmailOrCPF(ctx context.Context, email, cpf string) (*user.User, error) {
	return r.queryOne(ctx, SelectUserByEmailOrCPF, email, cpf)
}

func (r *Repository) FetchByIDs(ctx context.Context, ids []string) (user.Users, error) {
	if len(ids) == 0 {
		return user.Users{}, nil
	}
	return r.queryMany(ctx, SelectUsersByIDs, ids)
}

func (r *Repository) Search(ctx context.Context, f user.Filter) (user.Users, error) {
	return r.queryMany(ctx, SearchUsers, f.ID, f.Name, f.Email)
}

func (r *Repository) Create(ctx context.Context, req user.User) (*user.User, error) {
	return r.queryOne(ctx, InsertUser,
		req.ID, req.Name, req.Surname, req.Email, req.CPF, req.Phone, req.PasswordHash, string(req.Role), req.PostalCode,
	)
}

func (r *Repository) Update(ctx context.Context, req user.User) (*user.User, error) {
	return r.queryOne(ctx, UpdateUserByID,
		req.ID, req.Name, req.Surname, req.Email, req.CPF, req.Phone, string(req.Role), req.PostalCode,
	)
}

func (r *Repository) UpdatePassword(ctx context.Context, id, hash string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, UpdatePasswordByID, id, hash)
	return err
}

func (r *Repository) Delete(ctx context.Context, id string) (*user.User, error) {
	return r.queryOne(ctx, DeleteUserByID, id)
}

func (r *Repository) AppendListing(ctx context.Context, userID, listingID string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, AppendListingRef, userID, listingID)
	return err
}

func (r *Repository) RemoveListing(ctx context.Context, userID, listingID string) error {
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, RemoveListingRef, userID, listingID)
	return err
}

func (r *Repository) RemoveListingsEverywhere(ctx context.Context, listingIDs []string) error {
	if len(listingIDs) == 0 {
		return nil
	}
	_, err := postgres.Conn(ctx, r.db).Exec(ctx, RemoveListingRefsEverywhere, listingIDs)
	return err
}
