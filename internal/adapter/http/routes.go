package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the health and approval endpoints. idem guards the
// mutating approval routes and may be nil.
func RegisterRoutes(e *echo.Echo, h *Handler, ah *ApprovalHandler, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)

	g := e.Group("/api/v1/approvals")
	g.GET("", ah.List)
	g.GET("/:record_type/:record_id/latest", ah.LatestStatus)

	var mw []echo.MiddlewareFunc
	if idem != nil {
		mw = append(mw, idem)
	}
	g.POST("/:record_type/:record_id/submit", ah.Submit, mw...)
	g.POST("/:record_type/:record_id/approve", ah.Approve, mw...)
	g.POST("/:record_type/:record_id/reject", ah.Reject, mw...)
}
