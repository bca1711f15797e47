package attendance

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.List)
		attendances.POST("", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.Create)
		attendances.PUT("/:id", middleware.RBACAuthorize(rbacService, "attendance", "update"), h.Update)
		attendances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "attendance", "delete"), h.Delete)

		attendances.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetEmployeeAttendance)
		attendances.GET("/statistics", middleware.RBACAuthorize(rbacService, "report", "read"), h.DepartmentStats)
		attendances.GET("/reports/monthly", middleware.RBACAuthorize(rbacService, "report", "read"), h.MonthlyReport)
		attendances.GET("/reports/late", middleware.RBACAuthorize(rbacService, "report", "read"), h.LateAttendanceReport)

		attendances.POST("/exception", middleware.RBACAuthorize(rbacService, "attendance", "create"), h.ReportException)
		attendances.PUT("/exception/:id", middleware.RBACAuthorize(rbacService, "attendance", "update"), h.ResolveException)
	}
}
