package routes

import (
	"mechseva/internal/handlers"
	"mechseva/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth           *handlers.AuthHandler
	Customer       *handlers.CustomerHandler
	Mechanic       *handlers.MechanicHandler
	ServiceRequest *handlers.ServiceRequestHandler
}

// Setup mounts the full API surface under /api/v1.
func Setup(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	SetupAuthRoutes(r, h.Auth)
	SetupCustomerRoutes(r, h.Customer, jwtSecret)
	SetupMechanicRoutes(r, h.Mechanic, jwtSecret)
	SetupServiceRequestRoutes(r, h.ServiceRequest, jwtSecret)
	SetupAdminRoutes(r, h, jwtSecret)
}

// SetupAuthRoutes mounts signup, login and password recovery.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	{
		auth.POST("/customer/register", authHandler.RegisterCustomer)
		auth.POST("/customer/login", authHandler.LoginCustomer)
		auth.POST("/mechanic/register", authHandler.RegisterMechanic)
		auth.POST("/mechanic/login", authHandler.LoginMechanic)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
}

// SetupCustomerRoutes mounts the customer self-service surface.
func SetupCustomerRoutes(r *gin.RouterGroup, customerHandler *handlers.CustomerHandler, jwtSecret string) {
	customers := r.Group("/customers")
	customers.Use(middleware.AuthRequired(jwtSecret), middleware.CustomerRequired())
	{
		customers.GET("/me", customerHandler.GetProfile)
		customers.PUT("/me", customerHandler.UpdateProfile)
		customers.DELETE("/me", customerHandler.Deactivate)

		customers.POST("/me/addresses", customerHandler.AddAddress)
		customers.PUT("/me/addresses/:index", customerHandler.UpdateAddress)
		customers.DELETE("/me/addresses/:index", customerHandler.RemoveAddress)

		customers.POST("/me/vehicles", customerHandler.AddVehicle)
		customers.PUT("/me/vehicles/:index", customerHandler.UpdateVehicle)
		customers.DELETE("/me/vehicles/:index", customerHandler.RemoveVehicle)
	}
}

// SetupMechanicRoutes mounts mechanic self-service plus public discovery.
func SetupMechanicRoutes(r *gin.RouterGroup, mechanicHandler *handlers.MechanicHandler, jwtSecret string) {
	// Discovery is open to any authenticated account.
	discovery := r.Group("/mechanics")
	discovery.Use(middleware.AuthRequired(jwtSecret))
	{
		discovery.GET("/nearby", mechanicHandler.FindNearby)
		discovery.GET("/top-rated", mechanicHandler.GetTopRated)
	}

	mechanics := r.Group("/mechanics")
	mechanics.Use(middleware.AuthRequired(jwtSecret), middleware.MechanicRequired())
	{
		mechanics.GET("/me", mechanicHandler.GetProfile)
		mechanics.PUT("/me", mechanicHandler.UpdateProfile)
		mechanics.DELETE("/me", mechanicHandler.Deactivate)
		mechanics.PUT("/me/online", mechanicHandler.SetOnline)
		mechanics.PUT("/me/availability", mechanicHandler.UpdateAvailability)
		mechanics.PUT("/me/pricing", mechanicHandler.UpdateRateCard)
		mechanics.POST("/me/documents", mechanicHandler.SubmitDocuments)
		mechanics.POST("/me/statistics/refresh", mechanicHandler.RefreshStatistics)
	}
}

// SetupServiceRequestRoutes mounts the booking lifecycle.
func SetupServiceRequestRoutes(r *gin.RouterGroup, requestHandler *handlers.ServiceRequestHandler, jwtSecret string) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthRequired(jwtSecret))
	{
		requests.GET("", requestHandler.ListMine)
		requests.GET("/:requestId", requestHandler.Get)
		requests.PUT("/:requestId/status", requestHandler.UpdateStatus)
		requests.POST("/:requestId/cancel", requestHandler.Cancel)
		requests.POST("/:requestId/messages", requestHandler.AddMessage)
		requests.PUT("/:requestId/messages/read", requestHandler.MarkMessagesRead)
	}

	customerOps := r.Group("/requests")
	customerOps.Use(middleware.AuthRequired(jwtSecret), middleware.CustomerRequired())
	{
		customerOps.POST("", requestHandler.Create)
		customerOps.POST("/:requestId/assign", requestHandler.AssignMechanic)
		customerOps.POST("/:requestId/payment", requestHandler.MarkPaid)
		customerOps.POST("/:requestId/rating/customer", requestHandler.RateByCustomer)
	}

	mechanicOps := r.Group("/requests")
	mechanicOps.Use(middleware.AuthRequired(jwtSecret), middleware.MechanicRequired())
	{
		mechanicOps.GET("/nearby/pending", requestHandler.FindPendingNearby)
		mechanicOps.POST("/:requestId/parts", requestHandler.AddPart)
		mechanicOps.PUT("/:requestId/labor", requestHandler.SetLaborHours)
		mechanicOps.PUT("/:requestId/discount", requestHandler.ApplyDiscount)
		mechanicOps.POST("/:requestId/rating/mechanic", requestHandler.RateByMechanic)
	}
}

// SetupAdminRoutes mounts the back-office surface.
func SetupAdminRoutes(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/customers", h.Customer.List)
		admin.GET("/customers/statistics", h.Customer.GetStatistics)
		admin.GET("/mechanics", h.Mechanic.List)
		admin.PUT("/mechanics/:id/verification", h.Mechanic.SetVerificationStatus)
		admin.GET("/requests/statistics", h.ServiceRequest.GetPlatformStatistics)
	}
}
