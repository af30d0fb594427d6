// seed aplica las migraciones y crea el primer administrador a partir de SEED_ADMIN_*.
// Es idempotente: si ya existe un usuario con ese email no hace nada.
//
// Uso: SEED_ADMIN_EMAIL=admin@tesa.edu SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tesa-inventario/internal/application/auth"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
	"github.com/jhoicas/tesa-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/tesa-inventario/pkg/config"
	"github.com/jhoicas/tesa-inventario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, AppName: "tesa-seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Msg("migraciones aplicadas (incluye catálogos base)")

	created, err := seedAdmin(ctx, postgres.NewUserRepository(pool), cfg.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	if created {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador creado")
	} else {
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("el administrador ya existía")
	}
}

// seedAdmin crea el administrador si no existe un usuario con ese email.
func seedAdmin(ctx context.Context, users repository.UserRepository, seed config.SeedConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(seed.AdminEmail))
	if email == "" || seed.AdminPassword == "" {
		return false, fmt.Errorf("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD son obligatorios")
	}
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := auth.HashPassword(seed.AdminPassword)
	if err != nil {
		return false, err
	}
	name := strings.TrimSpace(seed.AdminName)
	if name == "" {
		name = "Administrador"
	}
	now := time.Now().UTC()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Username:     strings.SplitN(email, "@", 2)[0],
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdministrador,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
