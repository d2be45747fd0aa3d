package main

import (
	"os"

	"github.com/rs/zerolog"

	"wedding-server/routes"
	"wedding-server/services"
	"wedding-server/storage"
	"wedding-server/utils"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	db := storage.InitializeDB()
	store := storage.NewGormStore(db)
	cache := storage.NewRedisClient()
	if cache == nil {
		logger.Info().Msg("no REDIS_URL set, running without availability cache")
	}

	availability := services.NewAvailability(store, cache, logger)
	reservations := services.NewReservations(store, availability, logger)
	rsvp := services.NewRSVP(store, availability, logger)
	mailer := utils.NewMailerFromEnv()
	if mailer == nil {
		logger.Info().Msg("no mailjet keys set, RSVP notifications disabled")
	}

	app := routes.NewApp(routes.Deps{
		Store:        store,
		Availability: availability,
		Reservations: reservations,
		RSVP:         rsvp,
		Mailer:       mailer,
		Log:          logger,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := app.Listen(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
