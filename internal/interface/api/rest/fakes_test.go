package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"classifieds-api/internal/domain/category"
	"classifieds-api/internal/domain/listing"
	"classifieds-api/internal/domain/user"
	jwtSvc "classifieds-api/internal/infrastructure/jwt"
)

const (
	testSecret = "test-secret"
	userID     = "65a1f0c2e4b0a1b2c3d4e5f6"
	otherID    = "65a1f0c2e4b0a1b2c3d4e5f7"
	categoryID = "65a1f0c2e4b0a1b2c3d4e5c1"
	listingID  = "65a1f0c2e4b0a1b2c3d4e5aa"
)

var errNotUsed = errors.New("not used")

type FakeUserService struct {
	RegisterFunc       func(ctx context.Context, u user.User, password string) (*user.User, error)
	CreateAdminFunc    func(ctx context.Context, u user.User, password string) (*user.User, error)
	FindByIDFunc       func(ctx context.Context, id string) (*user.User, error)
	SearchFunc         func(ctx context.Context, f user.Filter) (user.Users, error)
	UpdateFunc         func(ctx context.Context, subject user.Subject, id string, p user.Patch) (*user.User, error)
	ChangePasswordFunc func(ctx context.Context, subject user.Subject, id, oldPassword, newPassword string) error
	DeleteFunc         func(ctx context.Context, subject user.Subject, id string) error
}

func (f *FakeUserService) Register(ctx context.Context, u user.User, password string) (*user.User, error) {
	if f.RegisterFunc == nil {
		return nil, errNotUsed
	}
	return f.RegisterFunc(ctx, u, password)
}
func (f *FakeUserService) CreateAdmin(ctx context.Context, u user.User, password string) (*user.User, error) {
	if f.CreateAdminFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateAdminFunc(ctx, u, password)
}
func (f *FakeUserService) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.FindByIDFunc == nil {
		return nil, errNotUsed
	}
	return f.FindByIDFunc(ctx, id)
}
func (f *FakeUserService) Search(ctx context.Context, fl user.Filter) (user.Users, error) {
	if f.SearchFunc == nil {
		return nil, errNotUsed
	}
	return f.SearchFunc(ctx, fl)
}
func (f *FakeUserService) Update(ctx context.Context, subject user.Subject, id string, p user.Patch) (*user.User, error) {
	if f.UpdateFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateFunc(ctx, subject, id, p)
}
func (f *FakeUserService) ChangePassword(ctx context.Context, subject user.Subject, id, oldPassword, newPassword string) error {
	if f.ChangePasswordFunc == nil {
		return errNotUsed
	}
	return f.ChangePasswordFunc(ctx, subject, id, oldPassword, newPassword)
}
func (f *FakeUserService) Delete(ctx context.Context, subject user.Subject, id string) error {
	if f.DeleteFunc == nil {
		return errNotUsed
	}
	return f.DeleteFunc(ctx, subject, id)
}

type FakeCategoryService struct {
	CreateFunc func(ctx context.Context, c category.Category) (*category.Category, error)
	SearchFunc func(ctx context.Context, subject user.Subject, f category.Filter) (category.Categories, listing.Listings, error)
	UpdateFunc func(ctx context.Context, id string, p category.Patch) (*category.Category, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (f *FakeCategoryService) Create(ctx context.Context, c category.Category) (*category.Category, error) {
	if f.CreateFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateFunc(ctx, c)
}
func (f *FakeCategoryService) Search(ctx context.Context, subject user.Subject, fl category.Filter) (category.Categories, listing.Listings, error) {
	if f.SearchFunc == nil {
		return nil, nil, errNotUsed
	}
	return f.SearchFunc(ctx, subject, fl)
}
func (f *FakeCategoryService) Update(ctx context.Context, id string, p category.Patch) (*category.Category, error) {
	if f.UpdateFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateFunc(ctx, id, p)
}
func (f *FakeCategoryService) Delete(ctx context.Context, id string) error {
	if f.DeleteFunc == nil {
		return errNotUsed
	}
	return f.DeleteFunc(ctx, id)
}

type FakeListingService struct {
	CreateFunc           func(ctx context.Context, subject user.Subject, l listing.Listing) (*listing.Listing, error)
	SearchFunc           func(ctx context.Context, subject user.Subject, f listing.Filter) (listing.Listings, user.Users, error)
	ListByOwnerFunc      func(ctx context.Context, subject user.Subject, ownerID string) (listing.Listings, error)
	ListByCategoryFunc   func(ctx context.Context, subject user.Subject, categoryID string) (listing.Listings, error)
	ChangeVisibilityFunc func(ctx context.Context, subject user.Subject, id string, v listing.Visibility, sharedWith []string) (*listing.Listing, error)
	AddShareTargetsFunc  func(ctx context.Context, subject user.Subject, id string, targets []string) (*listing.Listing, error)
	UpdateFunc           func(ctx context.Context, subject user.Subject, id string, p listing.Patch) (*listing.Listing, error)
	DeleteFunc           func(ctx context.Context, subject user.Subject, id string) error
}

func (f *FakeListingService) Create(ctx context.Context, subject user.Subject, l listing.Listing) (*listing.Listing, error) {
	if f.CreateFunc == nil {
		return nil, errNotUsed
	}
	return f.CreateFunc(ctx, subject, l)
}
func (f *FakeListingService) Search(ctx context.Context, subject user.Subject, fl listing.Filter) (listing.Listings, user.Users, error) {
	if f.SearchFunc == nil {
		return nil, nil, errNotUsed
	}
	return f.SearchFunc(ctx, subject, fl)
}
func (f *FakeListingService) ListByOwner(ctx context.Context, subject user.Subject, ownerID string) (listing.Listings, error) {
	if f.ListByOwnerFunc == nil {
		return nil, errNotUsed
	}
	return f.ListByOwnerFunc(ctx, subject, ownerID)
}
func (f *FakeListingService) ListByCategory(ctx context.Context, subject user.Subject, categoryID string) (listing.Listings, error) {
	if f.ListByCategoryFunc == nil {
		return nil, errNotUsed
	}
	return f.ListByCategoryFunc(ctx, subject, categoryID)
}
func (f *FakeListingService) ChangeVisibility(ctx context.Context, subject user.Subject, id string, v listing.Visibility, sharedWith []string) (*listing.Listing, error) {
	if f.ChangeVisibilityFunc == nil {
		return nil, errNotUsed
	}
	return f.ChangeVisibilityFunc(ctx, subject, id, v, sharedWith)
}
func (f *FakeListingService) AddShareTargets(ctx context.Context, subject user.Subject, id string, targets []string) (*listing.Listing, error) {
	if f.AddShareTargetsFunc == nil {
		return nil, errNotUsed
	}
	return f.AddShareTargetsFunc(ctx, subject, id, targets)
}
func (f *FakeListingService) Update(ctx context.Context, subject user.Subject, id string, p listing.Patch) (*listing.Listing, error) {
	if f.UpdateFunc == nil {
		return nil, errNotUsed
	}
	return f.UpdateFunc(ctx, subject, id, p)
}
func (f *FakeListingService) Delete(ctx context.Context, subject user.Subject, id string) error {
	if f.DeleteFunc == nil {
		return errNotUsed
	}
	return f.DeleteFunc(ctx, subject, id)
}

type testServer struct {
	r   *gin.Engine
	jwt *jwtSvc.Service
}

// newTestServer wires every controller through its real route registration.
func newTestServer(t *testing.T, us *FakeUserService, cs *FakeCategoryService, ls *FakeListingService) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if us == nil {
		us = &FakeUserService{}
	}
	if cs == nil {
		cs = &FakeCategoryService{}
	}
	if ls == nil {
		ls = &FakeListingService{}
	}

	r := gin.New()
	logger := zap.NewNop()
	j := jwtSvc.New(testSecret, time.Hour)

	NewUserController(r, us, ls, logger, j)
	NewCategoryController(r, cs, ls, logger, j)
	NewListingController(r, ls, logger, j)

	return &testServer{r: r, jwt: j}
}

func (s *testServer) bearer(t *testing.T, id string, role user.Role) map[string]string {
	t.Helper()
	tok, err := s.jwt.Issue(id, string(role))
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}
