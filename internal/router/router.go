package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/share-it/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers the health check on the provided Echo
// instance. This endpoint can be used by load balancers or
// monitoring systems to verify that the service is up and running.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterUsers registers the user registry endpoints. These are the
// only routes that do not read the X-Sharer-User-Id header: they are
// how user ids come into existence.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler) {
	g := e.Group("/users")
	g.POST("", u.Create)
	g.GET("/:id", u.Get)
	g.PATCH("/:id", u.Patch)
	g.DELETE("/:id", u.Delete)
}

// RegisterItems registers the item catalog endpoints, including
// search and post-rental comments. The search route must be
// registered before the :id route so "search" is not parsed as an
// item id (Echo resolves static segments first, but keeping the
// order explicit documents the intent).
func RegisterItems(e *echo.Echo, i *handler.ItemHandler) {
	g := e.Group("/items")
	g.GET("/search", i.Search)
	g.POST("", i.Create)
	g.GET("", i.List)
	g.GET("/:id", i.Get)
	g.PATCH("/:id", i.Patch)
	g.POST("/:id/comment", i.AddComment)
}

// RegisterBookings registers the booking ledger endpoints. The
// /owner listing is the symmetric counterpart of the tenant listing:
// the same six-way state filter over all bookings of the caller's
// items instead of the caller's own bookings.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler) {
	g := e.Group("/bookings")
	g.POST("", b.Create)
	g.GET("/owner", b.ListAsOwner)
	g.GET("/:id", b.Get)
	g.PATCH("/:id", b.Decide)
	g.GET("", b.ListAsTenant)
}

// RegisterRequests registers the request board endpoints.
func RegisterRequests(e *echo.Echo, r *handler.RequestHandler) {
	g := e.Group("/requests")
	g.POST("", r.Create)
	g.GET("", r.ListOwn)
	g.GET("/all", r.ListOthers)
	g.GET("/:id", r.Get)
}
