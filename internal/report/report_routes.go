package report

import (
	"github.com/mikexportit-jpg/attendance/internal/middleware"
	"github.com/mikexportit-jpg/attendance/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/daily", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Daily)
		reports.GET("/weekly", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Weekly)
		reports.GET("/monthly", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Monthly)
		reports.GET("/payslip", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Payslip)
		reports.GET("/overtime", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Overtime)
		reports.GET("/dashboard", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Dashboard)

		reports.GET("/payroll", middleware.RBACAuthorize(rbacService, "reports", "read_all"), h.MonthlyAll)
		reports.GET("/payroll/export",
			middleware.RBACAuthorize(rbacService, "reports", "export"),
			middleware.RateLimitByUser(0.1, 1),
			h.ExportMonthly,
		)
		reports.GET("/dashboard/manager", middleware.RBACAuthorize(rbacService, "reports", "read_all"), h.ManagerDashboard)
	}
}
