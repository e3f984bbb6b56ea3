package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	domain "classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/objectid"
	"classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/mq"
	"classifieds-api/internal/interface/api/rest/dto/category"
)

type CategoryService struct {
	categories domain.Repository
	listings   listing.Repository
	tx         ports.Transactor
	xref       *CrossRef
	events     ports.EventEmitter
	mCounter   *prometheus.CounterVec
}

func NewCategoryService(
	categories domain.Repository,
	listings listing.Repository,
	users user.Repository,
	tx ports.Transactor,
	events ports.EventEmitter,
	mCounter *prometheus.CounterVec,
) ports.CategoryService {
	return &CategoryService{
		categories: categories,
		listings:   listings,
		tx:         tx,
		xref:       NewCrossRef(users, categories, listings),
		events:     events,
		mCounter:   mCounter,
	}
}

func (cs *CategoryService) Create(ctx context.Context, c domain.Category) (*domain.Category, error) {
	if err := cs.ensureNameFree(ctx, c.Name, ""); err != nil {
		return nil, err
	}

	c.ID = objectid.New()
	created, err := cs.categories.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	cs.emit(mq.ActionCreated, created)
	cs.mCounter.WithLabelValues("categoria_created_total").Inc()

	return created, nil
}

func (cs *CategoryService) Search(ctx context.Context, subject user.Subject, f domain.Filter) (domain.Categories, listing.Listings, error) {
	if f.ID != "" {
		id, err := objectid.Parse(f.ID)
		if err != nil {
			return nil, nil, err
		}
		f.ID = id
	}

	found, err := cs.categories.Search(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	if len(found) == 0 {
		return nil, nil, apperror.New(apperror.NotFound, "no categories found")
	}

	var keys []string
	for _, c := range found {
		keys = append(keys, c.Listings...)
	}
	ls, err := cs.listings.FetchByIDs(ctx, keys)
	if err != nil {
		return nil, nil, err
	}

	return found, listing.FilterVisible(subject.ID, ls), nil
}

func (cs *CategoryService) Update(ctx context.Context, id string, p domain.Patch) (*domain.Category, error) {
	id, err := objectid.Parse(id)
	if err != nil {
		return nil, err
	}
	if p.Name == nil && p.Description == nil {
		return nil, apperror.New(apperror.BadRequest, "no fields to update")
	}

	c, err := cs.categories.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.New(apperror.NotFound, "category not found")
	}
	if p.Name != nil && *p.Name != c.Name {
		if err = cs.ensureNameFree(ctx, *p.Name, id); err != nil {
			return nil, err
		}
	}

	p.Apply(c)
	updated, err := cs.categories.Update(ctx, *c)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, "category not found")
	}

	cs.emit(mq.ActionUpdated, updated)
	cs.mCounter.WithLabelValues("categoria_updated_total").Inc()

	return updated, nil
}

// Delete removes the category together with every listing in it.
func (cs *CategoryService) Delete(ctx context.Context, id string) error {
	id, err := objectid.Parse(id)
	if err != nil {
		return err
	}

	var deleted *domain.Category
	err = cs.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := cs.categories.FetchByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return apperror.New(apperror.NotFound, "category not found")
		}
		if _, err = cs.xref.PurgeCategory(ctx, id); err != nil {
			return err
		}
		deleted, err = cs.categories.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	if deleted != nil {
		cs.emit(mq.ActionDeleted, deleted)
	}

	cs.mCounter.WithLabelValues("categoria_deleted_total").Inc()

	return nil
}

func (cs *CategoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	dup, err := cs.categories.FetchByName(ctx, name)
	if err != nil {
		return err
	}
	if dup != nil && dup.ID != selfID {
		return apperror.New(apperror.AlreadyExists, "a category with this name already exists")
	}
	return nil
}

func (cs *CategoryService) emit(action string, c *domain.Category) {
	cs.events.Emit(mq.NewEvent(mq.EntityCategory, action, c.ID, "", category.ToResponseCategory(*c, nil)))
}
