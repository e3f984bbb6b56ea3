package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/user"
)

const (
	aliceID = "65a1f0c2e4b0a1b2c3d4e5f1"
	bobID   = "65a1f0c2e4b0a1b2c3d4e5f2"
	carolID = "65a1f0c2e4b0a1b2c3d4e5f3"
	ghostID = "65a1f0c2e4b0a1b2c3d4e5ff"
	catID   = "65a1f0c2e4b0a1b2c3d4e5c1"
	cat2ID  = "65a1f0c2e4b0a1b2c3d4e5c2"
)

var (
	fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	alice    = user.Subject{ID: aliceID, Role: user.RoleUser}
	bob      = user.Subject{ID: bobID, Role: user.RoleUser}
	carol    = user.Subject{ID: carolID, Role: user.RoleUser}
)

func seeded(t *testing.T, ownerCheck bool) *fixture {
	t.Helper()
	f := newFixture(ownerCheck)
	f.listings.now = func() time.Time { return fixedNow }
	for _, u := range []*user.User{
		{ID: aliceID, Name: "Alice", Email: "alice@x.com", CPF: "111.111.111-11", Role: user.RoleUser, Listings: []string{}},
		{ID: bobID, Name: "Bob", Email: "bob@x.com", CPF: "222.222.222-22", Role: user.RoleUser, Listings: []string{}},
		{ID: carolID, Name: "Carol", Email: "carol@x.com", CPF: "333.333.333-33", Role: user.RoleUser, Listings: []string{}},
	} {
		f.s.users[u.ID] = u
	}
	f.s.categories[catID] = &category.Category{ID: catID, Name: "Esportes", Listings: []string{}}
	f.s.categories[cat2ID] = &category.Category{ID: cat2ID, Name: "Casa", Listings: []string{}}
	return f
}

func draft() listing.Listing {
	return listing.Listing{
		Title:       "Bicicleta",
		Description: "Aro 29",
		Price:       decimal.RequireFromString("1500.50"),
		CategoryID:  catID,
		OwnerID:     aliceID,
		ExpiresAt:   fixedNow.AddDate(0, 1, 0),
	}
}

func mustCreate(t *testing.T, f *fixture, subject user.Subject, mutate func(*listing.Listing)) *listing.Listing {
	t.Helper()
	l := draft()
	l.OwnerID = subject.ID
	if mutate != nil {
		mutate(&l)
	}
	created, err := f.listings.Create(context.Background(), subject, l)
	require.NoError(t, err)
	return created
}

func TestListingService_Create(t *testing.T) {
	f := seeded(t, true)

	l := mustCreate(t, f, alice, nil)

	assert.Len(t, l.ID, 24)
	assert.Equal(t, listing.Private, l.Visibility)
	assert.Equal(t, fixedNow, l.PublishedAt)
	assert.Equal(t, []string{l.ID}, f.s.users[aliceID].Listings)
	assert.Equal(t, []string{l.ID}, f.s.categories[catID].Listings)
	assert.Equal(t, 1, f.tx.Calls)
	assert.Equal(t, []string{"anuncio.created"}, f.events.Keys())
}

func TestListingService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		subject user.Subject
		mutate  func(*listing.Listing)
		want    apperror.Kind
	}{
		{
			name:    "malformed category key",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.CategoryID = "nope" },
			want:    apperror.InvalidIdentifier,
		},
		{
			name:    "unknown category is checked before ownership",
			subject: bob,
			mutate:  func(l *listing.Listing) { l.CategoryID = ghostID },
			want:    apperror.NotFound,
		},
		{
			name:    "unknown owner",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.OwnerID = ghostID },
			want:    apperror.NotFound,
		},
		{
			name:    "owner differs from subject",
			subject: bob,
			want:    apperror.NotAuthorized,
		},
		{
			name:    "expiration in the past",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.ExpiresAt = fixedNow.Add(-time.Minute) },
			want:    apperror.InvalidExpiration,
		},
		{
			name:    "expiration equal to now",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.ExpiresAt = fixedNow },
			want:    apperror.InvalidExpiration,
		},
		{
			name:    "price above bound",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.Price = decimal.RequireFromString("1000000000.01") },
			want:    apperror.ValidationFailed,
		},
		{
			name:    "shared without targets",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.Visibility = listing.Shared },
			want:    apperror.MissingShareTargets,
		},
		{
			name:    "unknown visibility",
			subject: alice,
			mutate:  func(l *listing.Listing) { l.Visibility = "secreto" },
			want:    apperror.InvalidVisibilityValue,
		},
		{
			name:    "share target does not exist",
			subject: alice,
			mutate: func(l *listing.Listing) {
				l.Visibility = listing.Shared
				l.SharedWith = []string{bobID, ghostID}
			},
			want: apperror.NotFound,
		},
		{
			name:    "malformed share target",
			subject: alice,
			mutate: func(l *listing.Listing) {
				l.Visibility = listing.Shared
				l.SharedWith = []string{"xyz"}
			},
			want: apperror.InvalidIdentifier,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := seeded(t, true)
			l := draft()
			if tt.mutate != nil {
				tt.mutate(&l)
			}

			got, err := f.listings.Create(context.Background(), tt.subject, l)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tt.want, apperror.KindOf(err))
			assert.Empty(t, f.s.listings)
			assert.Empty(t, f.s.users[aliceID].Listings)
			assert.Empty(t, f.events.Keys())
		})
	}
}

func TestListingService_Create_DuplicateTitle(t *testing.T) {
	f := seeded(t, true)
	mustCreate(t, f, alice, nil)

	_, err := f.listings.Create(context.Background(), alice, draft())
	assert.True(t, apperror.Is(err, apperror.AlreadyExists))

	// same title for another owner is fine
	mustCreate(t, f, bob, nil)
}

func TestListingService_Create_SharedDedupesTargets(t *testing.T) {
	f := seeded(t, true)
	l := mustCreate(t, f, alice, func(l *listing.Listing) {
		l.Visibility = listing.Shared
		l.SharedWith = []string{bobID, "65A1F0C2E4B0A1B2C3D4E5F2", carolID}
	})
	assert.Equal(t, []string{bobID, carolID}, l.SharedWith)
}

func TestListingService_Search_Visibility(t *testing.T) {
	f := seeded(t, true)
	pub := mustCreate(t, f, alice, func(l *listing.Listing) { l.Title = "Publico"; l.Visibility = listing.Public })
	mustCreate(t, f, alice, func(l *listing.Listing) { l.Title = "Privado" })
	shared := mustCreate(t, f, alice, func(l *listing.Listing) {
		l.Title = "Compartilhado"
		l.Visibility = listing.Shared
		l.SharedWith = []string{bobID}
	})
	ctx := context.Background()

	t.Run("owner does not see own shared listing", func(t *testing.T) {
		ls, _, err := f.listings.Search(ctx, alice, listing.Filter{})
		require.NoError(t, err)
		assert.Len(t, ls, 2)
		assert.NotContains(t, ls.IDs(), shared.ID)
	})

	t.Run("share target sees public and shared with populated users", func(t *testing.T) {
		ls, targets, err := f.listings.Search(ctx, bob, listing.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{pub.ID, shared.ID}, ls.IDs())
		require.Len(t, targets, 1)
		assert.Equal(t, "Bob", targets[0].Name)
	})

	t.Run("private hidden from others is not found", func(t *testing.T) {
		_, _, err := f.listings.Search(ctx, carol, listing.Filter{Visibility: listing.Private})
		assert.True(t, apperror.Is(err, apperror.NotFound))
	})

	t.Run("bad filter key", func(t *testing.T) {
		_, _, err := f.listings.Search(ctx, carol, listing.Filter{OwnerID: "zz"})
		assert.True(t, apperror.Is(err, apperror.InvalidIdentifier))
	})

	t.Run("bad visibility filter", func(t *testing.T) {
		_, _, err := f.listings.Search(ctx, carol, listing.Filter{Visibility: "x"})
		assert.True(t, apperror.Is(err, apperror.InvalidVisibilityValue))
	})
}

func TestListingService_ListByOwnerAndCategory(t *testing.T) {
	f := seeded(t, true)
	mustCreate(t, f, alice, nil)
	pub := mustCreate(t, f, alice, func(l *listing.Listing) { l.Title = "Mesa"; l.Visibility = listing.Public })
	ctx := context.Background()

	ls, err := f.listings.ListByOwner(ctx, bob, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{pub.ID}, ls.IDs())

	ls, err = f.listings.ListByCategory(ctx, alice, catID)
	require.NoError(t, err)
	assert.Len(t, ls, 2)

	_, err = f.listings.ListByCategory(ctx, alice, cat2ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))

	_, err = f.listings.ListByOwner(ctx, alice, ghostID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestListingService_ListByOwnerAndCategory_IgnoresBackReferences(t *testing.T) {
	f := seeded(t, true)
	ctx := context.Background()

	orphan := &listing.Listing{
		ID:         "65a1f0c2e4b0a1b2c3d4e5a9",
		Title:      "Sofa",
		OwnerID:    aliceID,
		CategoryID: catID,
		ExpiresAt:  fixedNow.AddDate(0, 1, 0),
		Visibility: listing.Public,
		SharedWith: []string{},
	}
	f.s.listings[orphan.ID] = orphan
	f.s.order = append(f.s.order, orphan.ID)
	require.Empty(t, f.s.users[aliceID].Listings)
	require.Empty(t, f.s.categories[catID].Listings)

	ls, err := f.listings.ListByOwner(ctx, bob, aliceID)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.ID}, ls.IDs())

	ls, err = f.listings.ListByCategory(ctx, bob, catID)
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.ID}, ls.IDs())
}

func TestListingService_ChangeVisibility(t *testing.T) {
	tests := []struct {
		name    string
		subject user.Subject
		v       listing.Visibility
		shared  []string
		want    apperror.Kind
		wantSet []string
	}{
		{name: "owner shares", subject: alice, v: listing.Shared, shared: []string{bobID}, wantSet: []string{bobID}},
		{name: "owner makes public keeping list", subject: alice, v: listing.Public, wantSet: []string{}},
		{name: "non-owner", subject: bob, v: listing.Public, want: apperror.NotAuthorized},
		{name: "shared without targets", subject: alice, v: listing.Shared, want: apperror.MissingShareTargets},
		{name: "shared with empty list", subject: alice, v: listing.Shared, shared: []string{}, want: apperror.MissingShareTargets},
		{name: "invalid value", subject: alice, v: "aberto", want: apperror.InvalidVisibilityValue},
		{name: "unknown target", subject: alice, v: listing.Shared, shared: []string{ghostID}, want: apperror.NotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := seeded(t, true)
			l := mustCreate(t, f, alice, nil)

			got, err := f.listings.ChangeVisibility(context.Background(), tt.subject, l.ID, tt.v, tt.shared)
			if tt.want != "" {
				assert.Equal(t, tt.want, apperror.KindOf(err))
				assert.Equal(t, listing.Private, f.s.listings[l.ID].Visibility)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.v, got.Visibility)
			assert.Equal(t, tt.wantSet, got.SharedWith)
		})
	}
}

func TestListingService_AddShareTargets(t *testing.T) {
	ctx := context.Background()

	t.Run("merges without duplicates and keeps visibility", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, func(l *listing.Listing) {
			l.Visibility = listing.Shared
			l.SharedWith = []string{bobID}
		})

		got, err := f.listings.AddShareTargets(ctx, alice, l.ID, []string{bobID, carolID})
		require.NoError(t, err)
		assert.Equal(t, []string{bobID, carolID}, got.SharedWith)
		assert.Equal(t, listing.Shared, got.Visibility)
	})

	t.Run("one malformed key rejects the whole batch", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, nil)

		_, err := f.listings.AddShareTargets(ctx, alice, l.ID, []string{bobID, "bad"})
		assert.True(t, apperror.Is(err, apperror.InvalidIdentifier))
		assert.Empty(t, f.s.listings[l.ID].SharedWith)
	})

	t.Run("empty batch", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, nil)

		_, err := f.listings.AddShareTargets(ctx, alice, l.ID, nil)
		assert.True(t, apperror.Is(err, apperror.MissingShareTargets))
	})

	t.Run("unknown user rejects the whole batch", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, func(l *listing.Listing) {
			l.Visibility = listing.Shared
			l.SharedWith = []string{carolID}
		})

		_, err := f.listings.AddShareTargets(ctx, alice, l.ID, []string{bobID, ghostID})
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.NotFound))
		assert.Contains(t, err.Error(), ghostID)
		assert.Equal(t, []string{carolID}, f.s.listings[l.ID].SharedWith)
		assert.Empty(t, f.events.Keys()[1:])
	})

	t.Run("non-owner", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, nil)

		_, err := f.listings.AddShareTargets(ctx, bob, l.ID, []string{carolID})
		assert.True(t, apperror.Is(err, apperror.NotAuthorized))
	})
}

func TestListingService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("moving category moves the back-reference", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, nil)
		to := cat2ID
		price := decimal.Zero

		got, err := f.listings.Update(ctx, alice, l.ID, listing.Patch{CategoryID: &to, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, cat2ID, got.CategoryID)
		assert.True(t, got.Price.IsZero())
		assert.Empty(t, f.s.categories[catID].Listings)
		assert.Equal(t, []string{l.ID}, f.s.categories[cat2ID].Listings)
	})

	t.Run("owner check on", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, nil)
		title := "Outro"

		_, err := f.listings.Update(ctx, bob, l.ID, listing.Patch{Title: &title})
		assert.True(t, apperror.Is(err, apperror.NotAuthorized))
	})

	t.Run("owner check off", func(t *testing.T) {
		f := seeded(t, false)
		l := mustCreate(t, f, alice, nil)
		title := "Outro"

		got, err := f.listings.Update(ctx, bob, l.ID, listing.Patch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Outro", got.Title)
	})

	t.Run("rejections", func(t *testing.T) {
		f := seeded(t, true)
		l := mustCreate(t, f, alice, nil)
		mustCreate(t, f, alice, func(l *listing.Listing) { l.Title = "Mesa" })
		past := fixedNow.Add(-time.Hour)
		dupTitle := "Mesa"
		ghost := ghostID

		cases := map[apperror.Kind]listing.Patch{
			apperror.BadRequest:        {},
			apperror.InvalidExpiration: {ExpiresAt: &past},
			apperror.AlreadyExists:     {Title: &dupTitle},
			apperror.NotFound:          {CategoryID: &ghost},
		}
		for want, p := range cases {
			_, err := f.listings.Update(ctx, alice, l.ID, p)
			assert.Equal(t, want, apperror.KindOf(err))
		}
	})
}

func TestListingService_Delete(t *testing.T) {
	ctx := context.Background()
	f := seeded(t, true)
	l := mustCreate(t, f, alice, nil)

	err := f.listings.Delete(ctx, bob, l.ID)
	assert.True(t, apperror.Is(err, apperror.NotAuthorized))

	require.NoError(t, f.listings.Delete(ctx, alice, l.ID))
	assert.Empty(t, f.s.listings)
	assert.Empty(t, f.s.users[aliceID].Listings)
	assert.Empty(t, f.s.categories[catID].Listings)
	assert.Contains(t, f.events.Keys(), "anuncio.deleted")

	err = f.listings.Delete(ctx, alice, l.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}
