package routes

import (
	"os"
	"strings"
	"time"

	"aquaserve-backend/config"
	"aquaserve-backend/controllers"
	"aquaserve-backend/middleware"
	"aquaserve-backend/services"
	"aquaserve-backend/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Users     store.UserStore
	Customers store.CustomerStore
	Orders    store.OrderStore
	Amc       store.AmcStore
	Stats     store.StatsStore
	Notifier  services.Notifier
	Cache     *middleware.Cache
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:4200"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())
	r.Use(middleware.RateLimit())

	authController := controllers.NewAuthController(deps.Users)
	userController := controllers.NewUserController(deps.Users)
	customerController := controllers.NewCustomerController(deps.Customers)
	orderController := controllers.NewOrderController(deps.Orders, deps.Customers, deps.Users, deps.Notifier)
	planController := controllers.NewAmcPlanController(deps.Amc)
	subscriptionController := controllers.NewAmcSubscriptionController(deps.Amc, deps.Customers)
	visitController := controllers.NewAmcVisitController(deps.Amc, deps.Users)
	dashboardController := controllers.NewDashboardController(deps.Stats)

	cache := deps.Cache

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authController.Login)

		auth.Use(middleware.Auth(deps.Users))
		auth.GET("/me", authController.Me)
		auth.POST("/register", middleware.AdminOnly(), authController.Register)
	}

	api := r.Group("/api")
	api.Use(middleware.Auth(deps.Users))
	{
		// User routes (admin console)
		users := api.Group("/users", middleware.AdminOnly())
		{
			users.GET("", userController.GetUsers)
			users.GET("/:id", userController.GetUser)
			users.PUT("/:id", userController.UpdateUser)
			users.DELETE("/:id", userController.DeleteUser)
		}

		// Customer routes
		customers := api.Group("/customers")
		{
			invalidate := cache.Invalidate("/api/customers")
			customers.POST("", invalidate, customerController.CreateCustomer)
			customers.GET("", cache.Response(5*time.Minute), customerController.GetCustomers)
			customers.GET("/:id", cache.Response(5*time.Minute), customerController.GetCustomer)
			customers.PUT("/:id", invalidate, customerController.UpdateCustomer)
			customers.DELETE("/:id", middleware.AdminOnly(), invalidate, customerController.DeleteCustomer)
		}

		// Order routes
		orders := api.Group("/orders")
		{
			invalidate := cache.Invalidate("/api/orders", "/api/dashboard")
			orders.POST("", invalidate, orderController.CreateOrder)
			orders.GET("", orderController.GetOrders)
			orders.GET("/:id", orderController.GetOrder)
			orders.GET("/:id/history", orderController.GetOrderHistory)
			orders.PUT("/:id", invalidate, orderController.UpdateOrder)
			orders.PUT("/:id/status", invalidate, orderController.UpdateStatus)
			orders.POST("/:id/assign", middleware.AdminOnly(), invalidate, orderController.AssignOrder)
			orders.DELETE("/:id", middleware.AdminOnly(), invalidate, orderController.DeleteOrder)
		}

		// AMC routes
		amc := api.Group("/amc")
		{
			planInvalidate := cache.Invalidate("/api/amc/plans")
			amc.POST("/plans", middleware.AdminOnly(), planInvalidate, planController.CreatePlan)
			amc.GET("/plans", cache.Response(15*time.Minute), planController.GetPlans)
			amc.GET("/plans/:id", cache.Response(15*time.Minute), planController.GetPlan)
			amc.PUT("/plans/:id", middleware.AdminOnly(), planInvalidate, planController.UpdatePlan)

			subInvalidate := cache.Invalidate("/api/amc/subscriptions", "/api/dashboard")
			amc.POST("/subscriptions", subInvalidate, subscriptionController.CreateSubscription)
			amc.GET("/subscriptions", cache.Response(2*time.Minute), subscriptionController.GetSubscriptions)
			amc.GET("/subscriptions/:id", cache.Response(2*time.Minute), subscriptionController.GetSubscription)
			amc.PUT("/subscriptions/:id", subInvalidate, subscriptionController.UpdateSubscription)
			amc.POST("/subscriptions/:id/payment", subInvalidate, subscriptionController.RecordPayment)
			amc.POST("/subscriptions/:id/cancel", subInvalidate, subscriptionController.CancelSubscription)

			visitInvalidate := cache.Invalidate("/api/amc/visits", "/api/amc/subscriptions")
			amc.POST("/visits", visitInvalidate, visitController.CreateVisit)
			amc.GET("/visits", visitController.GetVisits)
			amc.GET("/visits/:id", visitController.GetVisit)
			amc.PUT("/visits/:id", visitInvalidate, visitController.UpdateVisit)
		}

		// Dashboard routes
		api.GET("/dashboard", cache.Response(5*time.Minute), dashboardController.GetDashboardOverview)
	}

	return r
}
