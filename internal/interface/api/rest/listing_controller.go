package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	domain "classifieds-api/internal/domain/listing"
	"classifieds-api/internal/infrastructure/jwt"
	"classifieds-api/internal/interface/api/rest/dto/listing"
	"classifieds-api/internal/interface/api/rest/middleware"
)

type ListingController struct {
	listingService ports.ListingService
	logger         *zap.Logger
}

func NewListingController(
	r *gin.Engine,
	listingService ports.ListingService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *ListingController {
	lc := &ListingController{
		listingService: listingService,
		logger:         logger,
	}

	authn := middleware.AuthMiddleware(jwtService)

	r.POST(RouteListings, authn, lc.CreateListingHandler)
	r.GET(RouteListingSearch, authn, lc.SearchListingsHandler)
	r.PUT(RouteListingVisibility, authn, lc.ChangeVisibilityHandler)
	r.PATCH(RouteListingShare, authn, lc.ShareListingHandler)
	r.PATCH(RouteListing, authn, lc.UpdateListingHandler)
	r.DELETE(RouteListing, authn, lc.DeleteListingHandler)

	return lc
}

func (lc *ListingController) CreateListingHandler(c *gin.Context) {
	var req listing.Request
	if !bindAndValidate(c, &req) {
		return
	}

	l, err := lc.listingService.Create(c.Request.Context(), middleware.Subject(c), listing.ToDomainListing(req))
	if err != nil {
		respondError(c, lc.logger, "CreateListing()", err)
		return
	}

	c.JSON(http.StatusCreated, listing.ToResponseListing(*l))
}

func (lc *ListingController) SearchListingsHandler(c *gin.Context) {
	var q listing.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "type": apperror.BadRequest})
		return
	}

	ls, targets, err := lc.listingService.Search(c.Request.Context(), middleware.Subject(c), listing.ToDomainFilter(q))
	if err != nil {
		respondError(c, lc.logger, "SearchListings()", err)
		return
	}

	c.JSON(http.StatusOK, listing.ToPopulated(ls, targets))
}

func (lc *ListingController) ChangeVisibilityHandler(c *gin.Context) {
	var req listing.VisibilityRequest
	if !bindAndValidate(c, &req) {
		return
	}

	l, err := lc.listingService.ChangeVisibility(
		c.Request.Context(),
		middleware.Subject(c),
		c.Param("id"),
		domain.Visibility(req.Visibilidade),
		req.CompartilhadoCom,
	)
	if err != nil {
		respondError(c, lc.logger, "ChangeVisibility()", err)
		return
	}

	c.JSON(http.StatusOK, listing.ToResponseListing(*l))
}

func (lc *ListingController) ShareListingHandler(c *gin.Context) {
	var req listing.ShareRequest
	if !bindAndValidate(c, &req) {
		return
	}

	l, err := lc.listingService.AddShareTargets(c.Request.Context(), middleware.Subject(c), c.Param("id"), req.CompartilhadoCom)
	if err != nil {
		respondError(c, lc.logger, "AddShareTargets()", err)
		return
	}

	c.JSON(http.StatusOK, listing.ToResponseListing(*l))
}

func (lc *ListingController) UpdateListingHandler(c *gin.Context) {
	var req listing.PatchRequest
	if !bindAndValidate(c, &req) {
		return
	}

	l, err := lc.listingService.Update(c.Request.Context(), middleware.Subject(c), c.Param("id"), listing.ToDomainPatch(req))
	if err != nil {
		respondError(c, lc.logger, "UpdateListing()", err)
		return
	}

	c.JSON(http.StatusOK, listing.ToResponseListing(*l))
}

func (lc *ListingController) DeleteListingHandler(c *gin.Context) {
	if err := lc.listingService.Delete(c.Request.Context(), middleware.Subject(c), c.Param("id")); err != nil {
		respondError(c, lc.logger, "DeleteListing()", err)
		return
	}

	c.Status(http.StatusNoContent)
}
