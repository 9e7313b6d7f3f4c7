package main

import (
	"context"
	"errors"
	"log"
	"os"

	"aquaserve-backend/config"
	"aquaserve-backend/middleware"
	"aquaserve-backend/models"
	"aquaserve-backend/routes"
	"aquaserve-backend/services"
	"aquaserve-backend/store"
	"aquaserve-backend/store/gormstore"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()

	db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Order{},
		&models.OrderHistory{},
		&models.AmcPlan{},
		&models.AmcSubscription{},
		&models.AmcVisit{},
	)

	dataStore := gormstore.New(db)
	seedAdmin(dataStore)

	cache := middleware.NewCache(config.ConnectCache())
	notifier := services.NewNotifierFromEnv()

	expiry := services.NewExpiryService(dataStore)
	expiry.StartScheduler()

	r := routes.SetupRouter(routes.Deps{
		Users:     dataStore,
		Customers: dataStore,
		Orders:    dataStore,
		Amc:       dataStore,
		Stats:     dataStore,
		Notifier:  notifier,
		Cache:     cache,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

// seedAdmin bootstraps the first admin account; registration is admin-only
// so a fresh database needs one to exist.
func seedAdmin(users store.UserStore) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	ctx := context.Background()
	if _, err := users.GetUserByEmail(ctx, email); err == nil {
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Admin seed check failed: %v", err)
		return
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := users.CreateUser(ctx, &admin); err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Printf("Seeded admin user %s", email)
}
