package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	"classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/jwt"
	"classifieds-api/internal/interface/api/rest/dto/category"
	"classifieds-api/internal/interface/api/rest/dto/listing"
	"classifieds-api/internal/interface/api/rest/middleware"
)

type CategoryController struct {
	categoryService ports.CategoryService
	listingService  ports.ListingService
	logger          *zap.Logger
}

func NewCategoryController(
	r *gin.Engine,
	categoryService ports.CategoryService,
	listingService ports.ListingService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *CategoryController {
	cc := &CategoryController{
		categoryService: categoryService,
		listingService:  listingService,
		logger:          logger,
	}

	authn := middleware.AuthMiddleware(jwtService)
	admin := middleware.RequireRole(user.RoleAdmin)

	r.POST(RouteCategories, authn, admin, cc.CreateCategoryHandler)
	r.GET(RouteCategorySearch, authn, cc.SearchCategoriesHandler)
	r.GET(RouteCategoryListings, authn, cc.GetCategoryListingsHandler)
	r.PATCH(RouteCategory, authn, admin, cc.UpdateCategoryHandler)
	r.DELETE(RouteCategory, authn, admin, cc.DeleteCategoryHandler)

	return cc
}

func (cc *CategoryController) CreateCategoryHandler(c *gin.Context) {
	var req category.Request
	if !bindAndValidate(c, &req) {
		return
	}

	cat, err := cc.categoryService.Create(c.Request.Context(), category.ToDomainCategory(req))
	if err != nil {
		respondError(c, cc.logger, "CreateCategory()", err)
		return
	}

	c.JSON(http.StatusCreated, category.ToResponseCategory(*cat, nil))
}

func (cc *CategoryController) SearchCategoriesHandler(c *gin.Context) {
	var q category.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "type": apperror.BadRequest})
		return
	}

	cats, visible, err := cc.categoryService.Search(c.Request.Context(), middleware.Subject(c), category.ToDomainFilter(q))
	if err != nil {
		respondError(c, cc.logger, "SearchCategories()", err)
		return
	}

	c.JSON(http.StatusOK, category.ToResponseCategories(cats, visible))
}

func (cc *CategoryController) GetCategoryListingsHandler(c *gin.Context) {
	ls, err := cc.listingService.ListByCategory(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		respondError(c, cc.logger, "ListByCategory()", err)
		return
	}

	c.JSON(http.StatusOK, listing.ToResponseListings(ls))
}

func (cc *CategoryController) UpdateCategoryHandler(c *gin.Context) {
	var req category.PatchRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cat, err := cc.categoryService.Update(c.Request.Context(), c.Param("id"), category.ToDomainPatch(req))
	if err != nil {
		respondError(c, cc.logger, "UpdateCategory()", err)
		return
	}

	c.JSON(http.StatusOK, category.ToResponseCategory(*cat, nil))
}

func (cc *CategoryController) DeleteCategoryHandler(c *gin.Context) {
	if err := cc.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, cc.logger, "DeleteCategory()", err)
		return
	}

	c.Status(http.StatusNoContent)
}
