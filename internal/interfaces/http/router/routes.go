package router

import (
	"github.com/gin-gonic/gin"
	"github.com/societyhub/backend/internal/application/scope"
	"github.com/societyhub/backend/internal/domain/resident"
	"github.com/societyhub/backend/internal/interfaces/http/handler"
	"github.com/societyhub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers are the API handlers mounted under the versioned prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	Provisioning *handler.ProvisioningHandler
	Flat         *handler.FlatHandler
	User         *handler.UserHandler
	Maintenance  *handler.MaintenanceHandler
	Complaint    *handler.ComplaintHandler
	Notice       *handler.NoticeHandler
	Notification *handler.NotificationHandler
	Audit        *handler.AuditHandler
}

// Chain holds what the authentication chain needs
type Chain struct {
	JWT          middleware.JWTMiddlewareConfig
	Tenants      scope.Opener
	LoginLimiter *middleware.RateLimiter // nil disables login throttling
	Logger       *zap.Logger
}

// SocietyAPI returns the route groups of the API:
//
//	/auth       public login, token-only logout
//	/admin      platform operators
//	(society)   JWT -> TenantConnector -> UserContext -> role gate
func SocietyAPI(h Handlers, chain Chain) []RouteRegistrar {
	log := chain.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if chain.JWT.Logger == nil {
		chain.JWT.Logger = log
	}
	jwt := middleware.JWTAuthMiddlewareWithConfig(chain.JWT)

	throttle := func(c *gin.Context) { c.Next() }
	if chain.LoginLimiter != nil {
		throttle = middleware.AuthRateLimit(chain.LoginLimiter)
	}

	admin := middleware.RequireRole(resident.RoleAdmin)
	residents := middleware.RequireRole(resident.RoleAdmin, resident.RoleOwner, resident.RoleTenant)

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", throttle, h.Auth.Login)
	authRoutes.POST("/super/login", throttle, h.Auth.SuperLogin)
	authRoutes.POST("/logout", jwt, h.Auth.Logout)
	authRoutes.GET("/super/me", jwt, middleware.RequireSuper(), h.Auth.Me)

	adminRoutes := NewDomainGroup("admin", "/admin").
		Use(jwt, middleware.RequireSuper(), middleware.SpanAttributes())
	adminRoutes.POST("/societies", h.Provisioning.RegisterSociety)
	adminRoutes.GET("/societies", h.Provisioning.ListSocieties)
	adminRoutes.POST("/admins", h.Provisioning.CreateAdmin)

	society := NewDomainGroup("society", "").Use(
		jwt,
		middleware.TenantConnector(chain.Tenants, log),
		middleware.UserContext(log),
		middleware.SpanAttributes(),
		residents,
	)
	society.GET("/auth/me", h.Auth.Me)

	flats := society.Group("flats", "/flats")
	flats.POST("", admin, h.Flat.Create)
	flats.GET("", h.Flat.List)
	flats.GET("/:id", h.Flat.Get)
	flats.PUT("/:id", admin, h.Flat.Update)
	flats.DELETE("/:id", admin, h.Flat.Delete)
	flats.POST("/:id/owner", admin, h.Flat.TransferOwnership)
	flats.POST("/:id/tenant", admin, h.Flat.ChangeTenant)
	flats.GET("/:id/history/ownership", h.Flat.OwnershipHistory)
	flats.GET("/:id/history/tenancy", h.Flat.TenancyHistory)

	users := society.Group("users", "/users")
	users.POST("", admin, h.User.Create)
	users.GET("", admin, h.User.List)
	users.GET("/:id", h.User.Get)
	users.PUT("/:id", admin, h.User.Update)
	users.DELETE("/:id", admin, h.User.Deactivate)

	maintenance := society.Group("maintenance", "/maintenance")
	maintenance.POST("", admin, h.Maintenance.Create)
	maintenance.GET("", h.Maintenance.List)
	maintenance.GET("/slips", h.Maintenance.Slips)
	maintenance.GET("/report", admin, h.Maintenance.MonthlyReport)
	maintenance.GET("/flat/:flatId", h.Maintenance.ByFlat)
	maintenance.GET("/:id", h.Maintenance.Get)
	maintenance.PUT("/:id", admin, h.Maintenance.Update)
	maintenance.POST("/:id/pay", admin, h.Maintenance.Pay)
	maintenance.DELETE("/:id", admin, h.Maintenance.Delete)

	complaints := society.Group("complaints", "/complaints")
	complaints.POST("", h.Complaint.Create)
	complaints.GET("", h.Complaint.List)
	complaints.GET("/:id", h.Complaint.Get)
	complaints.PATCH("/:id/status", admin, h.Complaint.UpdateStatus)
	complaints.PUT("/:id/assign", admin, h.Complaint.Assign)
	complaints.DELETE("/:id", admin, h.Complaint.Delete)
	complaints.GET("/:id/comments", h.Complaint.Comments)
	complaints.POST("/:id/comments", h.Complaint.AddComment)

	notices := society.Group("notices", "/notices")
	notices.POST("", admin, h.Notice.Send)
	notices.GET("", h.Notice.Mine)
	notices.GET("/all", admin, h.Notice.All)
	notices.GET("/registry", admin, h.Notice.Registry)
	notices.PUT("/:id", admin, h.Notice.Update)
	notices.DELETE("/:id", admin, h.Notice.Delete)

	notifications := society.Group("notifications", "/notifications")
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread-count", h.Notification.UnreadCount)
	notifications.PATCH("/read-all", h.Notification.MarkAllRead)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)

	society.Group("audit", "/audit").GET("", admin, h.Audit.List)

	return []RouteRegistrar{authRoutes, adminRoutes, society}
}
