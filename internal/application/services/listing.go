package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/category"
	domain "classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/objectid"
	"classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/mq"
	"classifieds-api/internal/interface/api/rest/dto/listing"
)

type ListingService struct {
	listings   domain.Repository
	categories category.Repository
	users      user.Repository
	tx         ports.Transactor
	xref       *CrossRef
	events     ports.EventEmitter
	mCounter   *prometheus.CounterVec
	// ownerCheck gates the generic update and delete on ownership.
	ownerCheck bool
	now        func() time.Time
}

func NewListingService(
	listings domain.Repository,
	categories category.Repository,
	users user.Repository,
	tx ports.Transactor,
	events ports.EventEmitter,
	mCounter *prometheus.CounterVec,
	ownerCheck bool,
) ports.ListingService {
	return &ListingService{
		listings:   listings,
		categories: categories,
		users:      users,
		tx:         tx,
		xref:       NewCrossRef(users, categories, listings),
		events:     events,
		mCounter:   mCounter,
		ownerCheck: ownerCheck,
		now:        time.Now,
	}
}

func (ls *ListingService) Create(ctx context.Context, subject user.Subject, l domain.Listing) (*domain.Listing, error) {
	categoryID, err := objectid.Parse(l.CategoryID)
	if err != nil {
		return nil, err
	}
	ownerID, err := objectid.Parse(l.OwnerID)
	if err != nil {
		return nil, err
	}
	l.CategoryID, l.OwnerID = categoryID, ownerID

	if err = ls.mustCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	owner, err := ls.users.FetchByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}
	if ownerID != subject.ID {
		return nil, apperror.New(apperror.NotAuthorized, "listings can only be created for the authenticated user")
	}

	dup, err := ls.listings.FetchByTitleAndOwner(ctx, l.Title, ownerID)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, apperror.New(apperror.AlreadyExists, "a listing with this title already exists for this user")
	}

	now := ls.now()
	if err = domain.ValidateExpiration(l.ExpiresAt, now); err != nil {
		return nil, err
	}
	if err = validatePrice(l.Price); err != nil {
		return nil, err
	}

	if l.Visibility == "" {
		l.Visibility = domain.Private
	}
	if err = domain.ValidateVisibilityTransition(l.Visibility, l.SharedWith); err != nil {
		return nil, err
	}
	if l.SharedWith, err = ls.resolveTargets(ctx, l.SharedWith); err != nil {
		return nil, err
	}

	l.ID = objectid.New()
	l.PublishedAt = now

	var created *domain.Listing
	err = ls.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if created, err = ls.listings.Create(ctx, l); err != nil {
			return err
		}
		return ls.xref.Link(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	ls.emit(mq.ActionCreated, subject, created)
	ls.mCounter.WithLabelValues("anuncio_created_total").Inc()

	return created, nil
}

func (ls *ListingService) Search(ctx context.Context, subject user.Subject, f domain.Filter) (domain.Listings, user.Users, error) {
	if err := normalizeFilter(&f); err != nil {
		return nil, nil, err
	}

	found, err := ls.listings.Search(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	visible := domain.FilterVisible(subject.ID, found)
	if len(visible) == 0 {
		return nil, nil, apperror.New(apperror.NotFound, "no listings found")
	}

	targets, err := ls.users.FetchByIDs(ctx, visible.SharedUserIDs())
	if err != nil {
		return nil, nil, err
	}

	return visible, targets, nil
}

func (ls *ListingService) ListByOwner(ctx context.Context, subject user.Subject, ownerID string) (domain.Listings, error) {
	id, err := objectid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	owner, err := ls.users.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.New(apperror.NotFound, "user not found")
	}

	return ls.visibleWhere(ctx, subject, domain.Filter{OwnerID: id})
}

func (ls *ListingService) ListByCategory(ctx context.Context, subject user.Subject, categoryID string) (domain.Listings, error) {
	id, err := objectid.Parse(categoryID)
	if err != nil {
		return nil, err
	}
	c, err := ls.categories.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.New(apperror.NotFound, "category not found")
	}

	return ls.visibleWhere(ctx, subject, domain.Filter{CategoryID: id})
}

func (ls *ListingService) ChangeVisibility(
	ctx context.Context,
	subject user.Subject,
	id string,
	v domain.Visibility,
	sharedWith []string,
) (*domain.Listing, error) {
	if err := domain.ValidateVisibilityTransition(v, sharedWith); err != nil {
		return nil, err
	}
	id, err := objectid.Parse(id)
	if err != nil {
		return nil, err
	}

	l, err := ls.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = domain.AuthorizeMutation(subject.ID, l); err != nil {
		return nil, err
	}

	// A request without a share list keeps the stored one.
	shareSet := l.SharedWith
	if sharedWith != nil {
		if shareSet, err = ls.resolveTargets(ctx, sharedWith); err != nil {
			return nil, err
		}
	}

	updated, err := ls.listings.UpdateVisibility(ctx, id, v, shareSet)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, "listing not found")
	}

	ls.emit(mq.ActionUpdated, subject, updated)
	ls.mCounter.WithLabelValues("anuncio_visibility_changed_total").Inc()

	return updated, nil
}

func (ls *ListingService) AddShareTargets(ctx context.Context, subject user.Subject, id string, targets []string) (*domain.Listing, error) {
	id, err := objectid.Parse(id)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, apperror.New(apperror.MissingShareTargets, "compartilhado_com must contain at least one user")
	}

	l, err := ls.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = domain.AuthorizeMutation(subject.ID, l); err != nil {
		return nil, err
	}

	resolved, err := ls.resolveTargets(ctx, targets)
	if err != nil {
		return nil, err
	}

	updated, err := ls.listings.UpdateSharedWith(ctx, id, domain.MergeShareTargets(l.SharedWith, resolved))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.New(apperror.NotFound, "listing not found")
	}

	ls.emit(mq.ActionUpdated, subject, updated)
	ls.mCounter.WithLabelValues("anuncio_shared_total").Inc()

	return updated, nil
}

func (ls *ListingService) Update(ctx context.Context, subject user.Subject, id string, p domain.Patch) (*domain.Listing, error) {
	id, err := objectid.Parse(id)
	if err != nil {
		return nil, err
	}
	if p.Empty() {
		return nil, apperror.New(apperror.BadRequest, "no fields to update")
	}

	l, err := ls.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if ls.ownerCheck {
		if err = domain.AuthorizeMutation(subject.ID, l); err != nil {
			return nil, err
		}
	}

	if p.ExpiresAt != nil {
		if err = domain.ValidateExpiration(*p.ExpiresAt, ls.now()); err != nil {
			return nil, err
		}
	}
	if p.Price != nil {
		if err = validatePrice(*p.Price); err != nil {
			return nil, err
		}
	}
	if p.CategoryID != nil {
		categoryID, err := objectid.Parse(*p.CategoryID)
		if err != nil {
			return nil, err
		}
		if err = ls.mustCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		p.CategoryID = &categoryID
	}
	if p.Title != nil && *p.Title != l.Title {
		dup, err := ls.listings.FetchByTitleAndOwner(ctx, *p.Title, l.OwnerID)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != l.ID {
			return nil, apperror.New(apperror.AlreadyExists, "a listing with this title already exists for this user")
		}
	}

	fromCategory := l.CategoryID
	next := *l
	p.Apply(&next)

	var updated *domain.Listing
	err = ls.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if updated, err = ls.listings.Update(ctx, next); err != nil {
			return err
		}
		if updated == nil {
			return apperror.New(apperror.NotFound, "listing not found")
		}
		return ls.xref.Move(ctx, id, fromCategory, updated.CategoryID)
	})
	if err != nil {
		return nil, err
	}

	ls.emit(mq.ActionUpdated, subject, updated)
	ls.mCounter.WithLabelValues("anuncio_updated_total").Inc()

	return updated, nil
}

func (ls *ListingService) Delete(ctx context.Context, subject user.Subject, id string) error {
	id, err := objectid.Parse(id)
	if err != nil {
		return err
	}

	l, err := ls.fetch(ctx, id)
	if err != nil {
		return err
	}
	if ls.ownerCheck {
		if err = domain.AuthorizeMutation(subject.ID, l); err != nil {
			return err
		}
	}

	err = ls.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := ls.xref.Unlink(ctx, l); err != nil {
			return err
		}
		return ls.listings.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	ls.emit(mq.ActionDeleted, subject, l)
	ls.mCounter.WithLabelValues("anuncio_deleted_total").Inc()

	return nil
}

func (ls *ListingService) fetch(ctx context.Context, id string) (*domain.Listing, error) {
	l, err := ls.listings.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, apperror.New(apperror.NotFound, "listing not found")
	}
	return l, nil
}

func (ls *ListingService) mustCategory(ctx context.Context, id string) error {
	c, err := ls.categories.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.New(apperror.NotFound, "category not found")
	}
	return nil
}

// resolveTargets parses, dedupes and checks that every target user exists.
func (ls *ListingService) resolveTargets(ctx context.Context, raw []string) ([]string, error) {
	ids, err := objectid.ParseAll(raw)
	if err != nil {
		return nil, err
	}
	ids = domain.MergeShareTargets(nil, ids)
	if len(ids) == 0 {
		return []string{}, nil
	}

	found, err := ls.users.FetchByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := found.Index()
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			return nil, apperror.Newf(apperror.NotFound, "user %s not found", id)
		}
	}

	return ids, nil
}

// visibleWhere queries the listing rows themselves, so listings missing from a
// back-reference array are still found.
func (ls *ListingService) visibleWhere(ctx context.Context, subject user.Subject, f domain.Filter) (domain.Listings, error) {
	found, err := ls.listings.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	visible := domain.FilterVisible(subject.ID, found)
	if len(visible) == 0 {
		return nil, apperror.New(apperror.NotFound, "no listings found")
	}
	return visible, nil
}

func (ls *ListingService) emit(action string, subject user.Subject, l *domain.Listing) {
	ls.events.Emit(mq.NewEvent(mq.EntityListing, action, l.ID, subject.ID, listing.ToResponseListing(*l)))
}

func normalizeFilter(f *domain.Filter) error {
	var err error
	for _, key := range []*string{&f.ID, &f.OwnerID, &f.CategoryID} {
		if *key == "" {
			continue
		}
		if *key, err = objectid.Parse(*key); err != nil {
			return err
		}
	}
	if f.Visibility != "" && !f.Visibility.Valid() {
		return apperror.Newf(apperror.InvalidVisibilityValue, "visibility %q is not one of publico, privado, compartilhado", f.Visibility)
	}
	return nil
}

func validatePrice(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(domain.MaxPrice) {
		return apperror.Validation(map[string]string{"preco": "must be between 0 and 1000000000"})
	}
	return nil
}
