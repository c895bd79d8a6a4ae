package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/learnhub/internal/db"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, or status")
		driver  = flag.String("driver", "", "Database driver: sqlite or postgres (default $DB_DRIVER or sqlite)")
		dsn     = flag.String("dsn", "", "Database DSN (default $DB_DSN)")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	drv := db.Driver(firstNonEmpty(*driver, os.Getenv("DB_DRIVER"), string(db.DriverSQLite)))
	connStr := firstNonEmpty(*dsn, os.Getenv("DB_DSN"))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, drv, connStr)
	if err != nil {
		log.Fatal().Err(err).Str("driver", string(drv)).Msg("failed to open database")
	}
	defer conn.Close()

	log.Info().Str("driver", string(drv)).Msg("connected to database")

	switch *command {
	case "up":
		if err := db.Migrate(ctx, conn, drv); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := db.Rollback(ctx, conn, drv); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")

	case "status":
		if err := db.Status(ctx, conn, drv); err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}

	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, or status")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
