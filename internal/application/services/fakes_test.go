package services

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/metrics"
	"classifieds-api/internal/infrastructure/mq"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

// store backs the three fake repositories so cross-references can be asserted.
type store struct {
	mu         sync.Mutex
	users      map[string]*user.User
	categories map[string]*category.Category
	listings   map[string]*listing.Listing
	order      []string
}

func newStore() *store {
	return &store{
		users:      map[string]*user.User{},
		categories: map[string]*category.Category{},
		listings:   map[string]*listing.Listing{},
	}
}

func cloneUser(u *user.User) *user.User {
	c := *u
	c.Listings = slices.Clone(u.Listings)
	return &c
}

func cloneCategory(c *category.Category) *category.Category {
	cp := *c
	cp.Listings = slices.Clone(c.Listings)
	return &cp
}

func cloneListing(l *listing.Listing) *listing.Listing {
	c := *l
	c.SharedWith = slices.Clone(l.SharedWith)
	return &c
}

func without(keys []string, drop ...string) []string {
	out := []string{}
	for _, k := range keys {
		if !slices.Contains(drop, k) {
			out = append(out, k)
		}
	}
	return out
}

type userRepo struct{ s *store }

func (r userRepo) FetchByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r userRepo) FetchByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r userRepo) FetchByEmailOrCPF(_ context.Context, email, cpf string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email || u.CPF == cpf {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r userRepo) FetchByIDs(_ context.Context, ids []string) (user.Users, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := user.Users{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r userRepo) Search(_ context.Context, f user.Filter) (user.Users, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := user.Users{}
	for _, u := range r.s.users {
		if f.ID != "" && u.ID != f.ID {
			continue
		}
		if f.Email != "" && u.Email != f.Email {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r userRepo) Create(_ context.Context, u user.User) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.Listings = []string{}
	r.s.users[u.ID] = cloneUser(&u)
	return cloneUser(&u), nil
}

func (r userRepo) Update(_ context.Context, u user.User) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return nil, nil
	}
	r.s.users[u.ID] = cloneUser(&u)
	return cloneUser(&u), nil
}

func (r userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	delete(r.s.users, id)
	return u, nil
}

func (r userRepo) AppendListing(_ context.Context, userID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok && !slices.Contains(u.Listings, listingID) {
		u.Listings = append(u.Listings, listingID)
	}
	return nil
}

func (r userRepo) RemoveListing(_ context.Context, userID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.Listings = without(u.Listings, listingID)
	}
	return nil
}

func (r userRepo) RemoveListingsEverywhere(_ context.Context, listingIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		u.Listings = without(u.Listings, listingIDs...)
	}
	return nil
}

type categoryRepo struct{ s *store }

func (r categoryRepo) FetchByID(_ context.Context, id string) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, nil
}

func (r categoryRepo) FetchByName(_ context.Context, name string) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (r categoryRepo) Search(_ context.Context, f category.Filter) (category.Categories, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := category.Categories{}
	for _, c := range r.s.categories {
		if f.ID != "" && c.ID != f.ID {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, cloneCategory(c))
	}
	return out, nil
}

func (r categoryRepo) Create(_ context.Context, c category.Category) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.Listings = []string{}
	r.s.categories[c.ID] = cloneCategory(&c)
	return cloneCategory(&c), nil
}

func (r categoryRepo) Update(_ context.Context, c category.Category) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return nil, nil
	}
	r.s.categories[c.ID] = cloneCategory(&c)
	return cloneCategory(&c), nil
}

func (r categoryRepo) Delete(_ context.Context, id string) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	delete(r.s.categories, id)
	return c, nil
}

func (r categoryRepo) AppendListing(_ context.Context, categoryID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[categoryID]; ok && !slices.Contains(c.Listings, listingID) {
		c.Listings = append(c.Listings, listingID)
	}
	return nil
}

func (r categoryRepo) RemoveListing(_ context.Context, categoryID, listingID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[categoryID]; ok {
		c.Listings = without(c.Listings, listingID)
	}
	return nil
}

func (r categoryRepo) RemoveListingsEverywhere(_ context.Context, listingIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		c.Listings = without(c.Listings, listingIDs...)
	}
	return nil
}

type listingRepo struct{ s *store }

func (r listingRepo) FetchByID(_ context.Context, id string) (*listing.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l, ok := r.s.listings[id]; ok {
		return cloneListing(l), nil
	}
	return nil, nil
}

func (r listingRepo) FetchByTitleAndOwner(_ context.Context, title, ownerID string) (*listing.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.listings {
		if l.Title == title && l.OwnerID == ownerID {
			return cloneListing(l), nil
		}
	}
	return nil, nil
}

func (r listingRepo) FetchByIDs(_ context.Context, ids []string) (listing.Listings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := listing.Listings{}
	for _, id := range ids {
		if l, ok := r.s.listings[id]; ok {
			out = append(out, cloneListing(l))
		}
	}
	return out, nil
}

func (r listingRepo) Search(_ context.Context, f listing.Filter) (listing.Listings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := listing.Listings{}
	for _, id := range r.s.order {
		l, ok := r.s.listings[id]
		if !ok {
			continue
		}
		if (f.ID != "" && l.ID != f.ID) ||
			(f.OwnerID != "" && l.OwnerID != f.OwnerID) ||
			(f.CategoryID != "" && l.CategoryID != f.CategoryID) ||
			(f.Visibility != "" && l.Visibility != f.Visibility) ||
			(f.Title != "" && !strings.Contains(strings.ToLower(l.Title), strings.ToLower(f.Title))) {
			continue
		}
		out = append(out, cloneListing(l))
	}
	return out, nil
}

func (r listingRepo) Create(_ context.Context, l listing.Listing) (*listing.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.SharedWith == nil {
		l.SharedWith = []string{}
	}
	r.s.listings[l.ID] = cloneListing(&l)
	r.s.order = append(r.s.order, l.ID)
	return cloneListing(&l), nil
}

func (r listingRepo) Update(_ context.Context, l listing.Listing) (*listing.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.listings[l.ID]; !ok {
		return nil, nil
	}
	r.s.listings[l.ID] = cloneListing(&l)
	return cloneListing(&l), nil
}

func (r listingRepo) UpdateVisibility(_ context.Context, id string, v listing.Visibility, sharedWith []string) (*listing.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, nil
	}
	l.Visibility = v
	l.SharedWith = slices.Clone(sharedWith)
	return cloneListing(l), nil
}

func (r listingRepo) UpdateSharedWith(_ context.Context, id string, sharedWith []string) (*listing.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.listings[id]
	if !ok {
		return nil, nil
	}
	l.SharedWith = slices.Clone(sharedWith)
	return cloneListing(l), nil
}

func (r listingRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.listings, id)
	return nil
}

func (r listingRepo) deleteWhere(match func(*listing.Listing) bool) []string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := []string{}
	for _, id := range r.s.order {
		if l, ok := r.s.listings[id]; ok && match(l) {
			ids = append(ids, id)
			delete(r.s.listings, id)
		}
	}
	return ids
}

func (r listingRepo) DeleteByCategory(_ context.Context, categoryID string) ([]string, error) {
	return r.deleteWhere(func(l *listing.Listing) bool { return l.CategoryID == categoryID }), nil
}

func (r listingRepo) DeleteByOwner(_ context.Context, ownerID string) ([]string, error) {
	return r.deleteWhere(func(l *listing.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (r listingRepo) RemoveShareTarget(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.listings {
		l.SharedWith = without(l.SharedWith, userID)
		if l.Visibility == listing.Shared && len(l.SharedWith) == 0 {
			l.Visibility = listing.Private
		}
	}
	return nil
}

// FakeTransactor runs fn inline and records how many transactions were opened.
type FakeTransactor struct {
	Calls int
}

func (f *FakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.Calls++
	return fn(ctx)
}

type FakeEmitter struct {
	mu     sync.Mutex
	Events []mq.Event
}

func (f *FakeEmitter) Emit(e mq.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = append(f.Events, e)
}

func (f *FakeEmitter) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, len(f.Events))
	for i, e := range f.Events {
		keys[i] = e.RoutingKey()
	}
	return keys
}

type fixture struct {
	s        *store
	tx       *FakeTransactor
	events   *FakeEmitter
	users    *UserService
	cats     *CategoryService
	listings *ListingService
}

func newFixture(ownerCheck bool) *fixture {
	s := newStore()
	tx := &FakeTransactor{}
	events := &FakeEmitter{}
	counter := metrics.NewCounterWith(prometheus.NewRegistry())

	ur, cr, lr := userRepo{s}, categoryRepo{s}, listingRepo{s}
	return &fixture{
		s:        s,
		tx:       tx,
		events:   events,
		users:    NewUserService(ur, cr, lr, tx, events, counter).(*UserService),
		cats:     NewCategoryService(cr, lr, ur, tx, events, counter).(*CategoryService),
		listings: NewListingService(lr, cr, ur, tx, events, counter, ownerCheck).(*ListingService),
	}
}
