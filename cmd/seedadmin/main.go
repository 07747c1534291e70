// Command seedadmin provisions an admin account. Accounts are created
// out-of-band; the API has no registration endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinichq/clinic-backend/internal/core/domain"
	"github.com/clinichq/clinic-backend/internal/infrastructure/config"
	mongorepo "github.com/clinichq/clinic-backend/internal/infrastructure/db/mongo"
	"github.com/clinichq/clinic-backend/pkg/logger"
)

func main() {
	email := flag.String("email", "", "admin email (required)")
	password := flag.String("password", "", "initial password (required)")
	name := flag.String("name", "Clinic Admin", "display name")
	role := flag.String("role", domain.RoleAdmin, "role: admin or super_admin")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Config{Level: cfg.LogLevel, Service: "seedadmin", Pretty: true})

	if *email == "" || *password == "" {
		log.Fatal().Msg("both -email and -password are required")
	}
	if *role != domain.RoleAdmin && *role != domain.RoleSuperAdmin {
		log.Fatal().Str("role", *role).Msg("unknown role")
	}
	if len(*password) < 6 {
		log.Fatal().Msg("password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, disconnect, err := mongorepo.Connect(ctx, mongorepo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = disconnect(ctx) }()

	repo := mongorepo.NewAdminRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password hashing failed")
	}

	now := time.Now().UTC()
	admin := &domain.Admin{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(*email)),
		PasswordHash: string(hash),
		Name:         *name,
		Role:         *role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAdminExists) {
			log.Info().Str("email", admin.Email).Msg("admin already exists, nothing to do")
			return
		}
		log.Fatal().Err(err).Msg("admin creation failed")
	}

	log.Info().
		Str("email", admin.Email).
		Str("role", admin.Role).
		Msg("admin account created")
}
