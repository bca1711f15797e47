// Package rbac_http registers the RBAC HTTP surface. It lives apart from the
// rbac package so the middleware package can depend on rbac without a cycle.
package rbac_http

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, service rbac.Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/roles", middleware.RBACAuthorize(service, "role", "read"), handler.ListRoles)
		group.GET("/roles/:id", middleware.RBACAuthorize(service, "role", "read"), handler.GetRole)
		group.GET("/permissions", middleware.RBACAuthorize(service, "role", "read"), handler.ListPermissions)

		// Role administration is gated on the coarse role claim rather than
		// RBAC policy, so a broken policy set cannot lock admins out of
		// repairing it.
		admin := group.Group("")
		admin.Use(middleware.RoleMiddleware("ADMIN", "HR_ADMIN"))
		{
			admin.POST("/roles", handler.CreateRole)
			admin.PUT("/roles/:id", handler.UpdateRole)
			admin.DELETE("/roles/:id", handler.DeleteRole)
		}
	}
}
