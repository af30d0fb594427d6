package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository/repotest"
	"github.com/jhoicas/tesa-inventario/pkg/config"
)

func TestSeedAdmin_CreaUnaSolaVez(t *testing.T) {
	store := repotest.NewStore()
	users := store.Users()
	ctx := context.Background()
	seed := config.SeedConfig{AdminEmail: " Admin@TESA.edu ", AdminPassword: "cambiar123", AdminName: "Rectoría"}

	created, err := seedAdmin(ctx, users, seed)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := users.GetByEmail(ctx, "admin@tesa.edu")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdministrador, u.Role)
	assert.Equal(t, "admin", u.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("cambiar123")))

	created, err = seedAdmin(ctx, users, seed)
	require.NoError(t, err)
	assert.False(t, created, "segunda ejecución no duplica")
}

func TestSeedAdmin_SinCredenciales(t *testing.T) {
	_, err := seedAdmin(context.Background(), repotest.NewStore().Users(), config.SeedConfig{})
	assert.Error(t, err)
}
