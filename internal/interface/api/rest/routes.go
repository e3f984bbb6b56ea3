package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteLogin = RouteApiV1 + "/login"

	// usuario
	RouteUsers        = RouteApiV1 + "/usuario"
	RouteUserAdmin    = RouteUsers + "/admin"
	RouteUserSearch   = RouteUsers + "/buscar"
	RouteUserMe       = RouteUsers + "/logado"
	RouteUserListings = RouteUsers + "/anuncios/:id"
	RouteUserPassword = RouteUsers + "/senha/:id"
	RouteUser         = RouteUsers + "/:id"

	// categoria
	RouteCategories       = RouteApiV1 + "/categoria"
	RouteCategorySearch   = RouteCategories + "/buscar"
	RouteCategoryListings = RouteCategories + "/anuncios/:id"
	RouteCategory         = RouteCategories + "/:id"

	// anuncio
	RouteListings          = RouteApiV1 + "/anuncio"
	RouteListingSearch     = RouteListings + "/buscar"
	RouteListing           = RouteListings + "/:id"
	RouteListingVisibility = RouteListing + "/visibilidade"
	RouteListingShare      = RouteListing + "/compartilhar"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
