package services

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/objectid"
	domain "classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/mq"
	"classifieds-api/internal/interface/api/rest/dto/user"
)

// BcryptCost is lowered by tests.
var BcryptCost = 12

type UserService struct {
	users    domain.Repository
	tx       ports.Transactor
	xref     *CrossRef
	events   ports.EventEmitter
	mCounter *prometheus.CounterVec
}

func NewUserService(
	users domain.Repository,
	categories category.Repository,
	listings listing.Repository,
	tx ports.Transactor,
	events ports.EventEmitter,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		users:    users,
		tx:       tx,
		xref:     NewCrossRef(users, categories, listings),
		events:   events,
		mCounter: mCounter,
	}
}

func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

func (us *UserService) Register(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	u.Role = domain.RoleUser
	return us.create(ctx, u, password, "usuario_created_total")
}

func (us *UserService) CreateAdmin(ctx context.Context, u domain.User, password string) (*domain.User, error) {
	u.Role = domain.RoleAdmin
	return us.create(ctx, u, password, "admin_created_total")
}

func (us *UserService) create(ctx context.Context, u domain.User, password, counter string) (*domain.User, error) {
	u.Email = NormalizeEmail(u.Email)

	dup, err := us.users.FetchByEmailOrCPF(ctx, u.Email, u.CPF)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, apperror.New(apperror.AlreadyExists, "a user with this email or cpf already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = string(hash)
	u.ID = objectid.New()

	created, err := us.users.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	us.emit(mq.ActionCreated, "", created)
	us.mCounter.WithLabelValues(counter).Inc()

	return created, nil
}

func (us *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	id, err := objectid.Parse(id)
	if err != nil {
		return nil, err
	}
	u, err := us.users.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}

	return u, nil
}

func (us *UserService) Search(ctx context.Context, f domain.Filter) (domain.Users, error) {
	if f.ID != "" {
		id, err := objectid.Parse(f.ID)
		if err != nil {
			return nil, err
		}
		f.ID = id
	}
	if f.Email != "" {
		f.Email = NormalizeEmail(f.Email)
	}

	found, err := us.users.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperror.New(apperror.NotFound, "no users found")
	}

	return found, nil
}

func (us *UserService) Update(ctx context.Context, subject domain.Subject, id string, p domain.Patch) (*domain.User, error) {
	id, err := objectid.Parse(id)
	if err != nil {
		return nil, err
	}
	if !subject.CanManage(id) {
		return nil, apperror.New(apperror.NotAuthorized, "only the user or an admin may update this profile")
	}
	if p.Role != nil && !subject.IsAdmin() {
		return nil, apperror.New(apperror.NotAuthorized, "only an admin may change papel")
	}

	u, err := us.users.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}

	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		p.Email = &email
	}
	if err = us.ensureUnique(ctx, u, p); err != nil {
		return nil, err
	}

	p.Apply(u)
	updated, err := us.users.Update(ctx, *u)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}

	us.emit(mq.ActionUpdated, subject.ID, updated)
	us.mCounter.WithLabelValues("usuario_updated_total").Inc()

	return updated, nil
}

func (us *UserService) ChangePassword(ctx context.Context, subject domain.Subject, id, oldPassword, newPassword string) error {
	id, err := objectid.Parse(id)
	if err != nil {
		return err
	}
	if subject.ID != id {
		return apperror.New(apperror.NotAuthorized, "users may only change their own password")
	}

	u, err := us.users.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return apperror.New(apperror.NotFound, "user not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return apperror.New(apperror.BadRequest, "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return err
	}
	if err = us.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}

	us.mCounter.WithLabelValues("usuario_password_changed_total").Inc()

	return nil
}

// Delete removes the user, their listings and every share entry naming them.
func (us *UserService) Delete(ctx context.Context, subject domain.Subject, id string) error {
	id, err := objectid.Parse(id)
	if err != nil {
		return err
	}
	if !subject.CanManage(id) {
		return apperror.New(apperror.NotAuthorized, "only the user or an admin may delete this profile")
	}

	var deleted *domain.User
	err = us.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := us.users.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return apperror.New(apperror.NotFound, "user not found")
		}
		if _, err = us.xref.PurgeOwner(ctx, id); err != nil {
			return err
		}
		deleted, err = us.users.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if deleted != nil {
		us.emit(mq.ActionDeleted, subject.ID, deleted)
	}

	us.mCounter.WithLabelValues("usuario_deleted_total").Inc()

	return nil
}

func (us *UserService) ensureUnique(ctx context.Context, current *domain.User, p domain.Patch) error {
	if p.Email != nil && *p.Email != current.Email {
		dup, err := us.users.FetchByEmail(ctx, *p.Email)
		if err != nil {
			return err
		}
		if dup != nil {
			return apperror.New(apperror.AlreadyExists, "a user with this email already exists")
		}
	}
	if p.CPF != nil && *p.CPF != current.CPF {
		// stored emails are never empty, so this matches on cpf only
		dup, err := us.users.FetchByEmailOrCPF(ctx, "", *p.CPF)
		if err != nil {
			return err
		}
		if dup != nil {
			return apperror.New(apperror.AlreadyExists, "a user with this cpf already exists")
		}
	}
	return nil
}

func (us *UserService) emit(action, actorID string, u *domain.User) {
	us.events.Emit(mq.NewEvent(mq.EntityUser, action, u.ID, actorID, user.ToResponseUser(*u)))
}
