package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classifieds-api/internal/application/ports"
	"classifieds-api/internal/domain/apperror"
	domain "classifieds-api/internal/domain/user"
	"classifieds-api/internal/infrastructure/jwt"
	"classifieds-api/internal/interface/api/rest/dto/listing"
	"classifieds-api/internal/interface/api/rest/dto/user"
	"classifieds-api/internal/interface/api/rest/middleware"
)

type UserController struct {
	userService    ports.UserService
	listingService ports.ListingService
	logger         *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	listingService ports.ListingService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService:    userService,
		listingService: listingService,
		logger:         logger,
	}

	authn := middleware.AuthMiddleware(jwtService)

	r.POST(RouteUsers, uc.CreateUserHandler)
	r.POST(RouteUserAdmin, authn, middleware.RequireRole(domain.RoleAdmin), uc.CreateAdminHandler)
	r.GET(RouteUserSearch, authn, uc.SearchUsersHandler)
	r.GET(RouteUserMe, authn, uc.GetLoggedUserHandler)
	r.GET(RouteUserListings, authn, uc.GetUserListingsHandler)
	r.PATCH(RouteUser, authn, uc.UpdateUserHandler)
	r.PUT(RouteUserPassword, authn, uc.ChangePasswordHandler)
	r.DELETE(RouteUser, authn, uc.DeleteUserHandler)

	return uc
}

func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var req user.Request
	if !bindAndValidate(c, &req) {
		return
	}

	u, err := uc.userService.Register(c.Request.Context(), user.ToDomainUser(req), req.Senha)
	if err != nil {
		respondError(c, uc.logger, "Register()", err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (uc *UserController) CreateAdminHandler(c *gin.Context) {
	var req user.Request
	if !bindAndValidate(c, &req) {
		return
	}

	u, err := uc.userService.CreateAdmin(c.Request.Context(), user.ToDomainUser(req), req.Senha)
	if err != nil {
		respondError(c, uc.logger, "CreateAdmin()", err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (uc *UserController) SearchUsersHandler(c *gin.Context) {
	var q user.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "type": apperror.BadRequest})
		return
	}

	users, err := uc.userService.Search(c.Request.Context(), user.ToDomainFilter(q))
	if err != nil {
		respondError(c, uc.logger, "SearchUsers()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUsers(users))
}

func (uc *UserController) GetLoggedUserHandler(c *gin.Context) {
	u, err := uc.userService.FindByID(c.Request.Context(), middleware.Subject(c).ID)
	if err != nil {
		respondError(c, uc.logger, "FindByID()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) GetUserListingsHandler(c *gin.Context) {
	ls, err := uc.listingService.ListByOwner(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		respondError(c, uc.logger, "ListByOwner()", err)
		return
	}

	c.JSON(http.StatusOK, listing.ToResponseListings(ls))
}

func (uc *UserController) UpdateUserHandler(c *gin.Context) {
	var req user.PatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if req.Senha != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "senha cannot be changed here, use " + RouteUserPassword,
			"type":  apperror.BadRequest,
		})
		return
	}

	u, err := uc.userService.Update(c.Request.Context(), middleware.Subject(c), c.Param("id"), user.ToDomainPatch(req))
	if err != nil {
		respondError(c, uc.logger, "UpdateUser()", err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) ChangePasswordHandler(c *gin.Context) {
	var req user.PasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := uc.userService.ChangePassword(c.Request.Context(), middleware.Subject(c), c.Param("id"), req.SenhaAntiga, req.SenhaNova)
	if err != nil {
		respondError(c, uc.logger, "ChangePassword()", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (uc *UserController) DeleteUserHandler(c *gin.Context) {
	err := uc.userService.Delete(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		respondError(c, uc.logger, "DeleteUser()", err)
		return
	}

	c.Status(http.StatusNoContent)
}
