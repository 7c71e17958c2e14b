package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rentdesk/backend/internal/interfaces/http/handler"
)

// LoginPath is the only API route that is reachable without a session
const LoginPath = "/auth/login"

// RentalHandlers holds the handlers mounted under the versioned API prefix
type RentalHandlers struct {
	Auth      *handler.AuthHandler
	Rooms     *handler.RoomHandler
	Tenants   *handler.TenantHandler
	Payments  *handler.PaymentHandler
	Utilities *handler.UtilityConsumptionHandler

	// LoginMiddleware runs in front of the login handler only
	LoginMiddleware []gin.HandlerFunc
}

// RentalGroups builds the domain groups of the rental API
func RentalGroups(h RentalHandlers) []*DomainGroup {
	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", append(append([]gin.HandlerFunc{}, h.LoginMiddleware...), h.Auth.Login)...)
	authRoutes.POST("/logout", h.Auth.Logout)
	authRoutes.GET("/session", h.Auth.Session)

	roomRoutes := NewDomainGroup("rooms", "/rooms")
	roomRoutes.GET("", h.Rooms.List)
	roomRoutes.POST("", h.Rooms.Create)
	roomRoutes.GET("/:id", h.Rooms.GetByID)
	roomRoutes.PUT("/:id", h.Rooms.Update)
	roomRoutes.DELETE("/:id", h.Rooms.Delete)
	roomRoutes.GET("/:id/receipt", h.Rooms.Receipt)
	roomRoutes.POST("/:id/images", h.Rooms.UploadImage)

	tenantRoutes := NewDomainGroup("tenants", "/tenants")
	tenantRoutes.GET("", h.Tenants.List)
	tenantRoutes.POST("", h.Tenants.Create)
	tenantRoutes.GET("/:id", h.Tenants.GetByID)
	tenantRoutes.PUT("/:id", h.Tenants.Update)
	tenantRoutes.DELETE("/:id", h.Tenants.Delete)

	paymentRoutes := NewDomainGroup("payments", "/payments")
	paymentRoutes.GET("", h.Payments.List)
	paymentRoutes.POST("", h.Payments.Create)
	paymentRoutes.GET("/:id", h.Payments.GetByID)
	paymentRoutes.PUT("/:id", h.Payments.Update)
	paymentRoutes.DELETE("/:id", h.Payments.Delete)

	utilityRoutes := NewDomainGroup("utility-consumption", "/utility-consumption")
	utilityRoutes.GET("", h.Utilities.List)
	utilityRoutes.GET("/previous", h.Utilities.Previous)
	utilityRoutes.POST("", h.Utilities.Create)
	utilityRoutes.GET("/:id", h.Utilities.GetByID)
	utilityRoutes.PUT("/:id", h.Utilities.Update)
	utilityRoutes.DELETE("/:id", h.Utilities.Delete)

	return []*DomainGroup{authRoutes, roomRoutes, tenantRoutes, paymentRoutes, utilityRoutes}
}
