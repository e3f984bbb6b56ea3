// Command seedadmin creates the first administrator account, which the
// HTTP API cannot do without an existing admin token.
//
//	go run ./cmd/seedadmin -email admin@example.com -password secret123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"classifieds-api/config"
	"classifieds-api/internal/application/services"
	"classifieds-api/internal/infrastructure/db/postgres"
	"classifieds-api/internal/infrastructure/db/postgres/category"
	"classifieds-api/internal/infrastructure/db/postgres/listing"
	"classifieds-api/internal/infrastructure/db/postgres/user"
	"classifieds-api/internal/infrastructure/logger"
	"classifieds-api/internal/infrastructure/metrics"
	"classifieds-api/internal/infrastructure/mq"
	dto "classifieds-api/internal/interface/api/rest/dto/user"
	"classifieds-api/internal/interface/api/rest/validator"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	var req dto.Request
	flag.StringVar(&req.Nome, "name", envOr("SEED_ADMIN_NAME", "Admin"), "first name")
	flag.StringVar(&req.Sobrenome, "surname", envOr("SEED_ADMIN_SURNAME", "Sistema"), "surname")
	flag.StringVar(&req.Email, "email", os.Getenv("SEED_ADMIN_EMAIL"), "login email")
	flag.StringVar(&req.Senha, "password", os.Getenv("SEED_ADMIN_PASSWORD"), "login password")
	flag.StringVar(&req.CPF, "cpf", envOr("SEED_ADMIN_CPF", "000.000.000-00"), "cpf, 000.000.000-00")
	flag.StringVar(&req.Telefone, "phone", envOr("SEED_ADMIN_PHONE", "(00) 00000-0000"), "phone, (00) 00000-0000")
	flag.StringVar(&req.CEP, "cep", envOr("SEED_ADMIN_CEP", "00000-000"), "postal code, 00000-000")
	flag.Parse()

	log, flush := logger.New(logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	defer flush()

	if details := validator.Struct(req); details != nil {
		for field, msg := range details {
			fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
		}
		flush()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dsn, err := cfg.DBDSN()
	if err != nil {
		log.Fatal("DB config error", zap.Error(err))
	}
	if cfg.DB.Migrate {
		if err = postgres.RunMigrations(dsn, log); err != nil {
			log.Fatal("failed to apply migrations", zap.Error(err))
		}
	}
	pool, err := postgres.New(ctx, log, dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// no publisher worker runs here, so the created event stays in the buffer
	cfg.MQ.Enabled = false
	userService := services.NewUserService(
		user.NewRepository(pool),
		category.NewRepository(pool),
		listing.NewRepository(pool),
		postgres.NewTransactor(pool),
		mq.New(cfg.MQ, log),
		metrics.NewCounter(),
	)

	u, err := userService.CreateAdmin(ctx, dto.ToDomainUser(req), req.Senha)
	if err != nil {
		log.Error("create admin failed", zap.Error(err))
		flush()
		os.Exit(1)
	}

	log.Info("admin created", zap.String("id", u.ID), zap.String("email", u.Email))
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
