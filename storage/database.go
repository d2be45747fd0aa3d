package storage

import (
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wedding-server/models"
)

func connectToDB() *gorm.DB {
	// Load the .env file. Missing is fine in deployed environments where
	// config comes from real environment variables.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[warn] could not load .env file: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Panic("DATABASE_URL is not set in the environment variables")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Printf("[error] failed to initialize database, got error %v", dbError)
		log.Panic("Error connecting to the database")
	}
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Wedding{},
		&models.Invitation{},
		&models.ReservationAvailability{},
		&models.Reservation{},
	)
}

// InitializeDB connects to Postgres and runs migrations.
func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}

// NewRedisClient builds the cache client from REDIS_URL. Returns nil when
// no redis is configured; callers treat a nil client as "no cache".
func NewRedisClient() *redis.Client {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[warn] invalid REDIS_URL, running without cache: %v", err)
		return nil
	}
	return redis.NewClient(opts)
}
