package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

func TestWriteErr_TraduceCodigosPostgres(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "equipos_codigo_key"}
	fk := &pgconn.PgError{Code: "23503"}
	other := errors.New("conexión rechazada")

	assert.ErrorIs(t, writeErr(unique, "equipo"), domain.ErrDuplicate)
	assert.ErrorIs(t, writeErr(fk, "ubicacion"), domain.ErrConflict)

	err := writeErr(other, "equipo")
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserWriteErr_DistingueEmailYUsername(t *testing.T) {
	assert.ErrorIs(t, userWriteErr(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}), domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, userWriteErr(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), domain.ErrDuplicate)
}

func TestLookupErr_IDMalFormado(t *testing.T) {
	invalid := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	assert.ErrorIs(t, lookupErr(invalid, domain.ErrNotFound), domain.ErrNotFound)
	assert.ErrorIs(t, lookupErr(fmt.Errorf("scan: %w", invalid), domain.ErrInvalidInput), domain.ErrInvalidInput)
	assert.NoError(t, lookupErr(nil, domain.ErrNotFound))

	other := errors.New("conexión rechazada")
	assert.Same(t, other, lookupErr(other, domain.ErrNotFound))
}

// fakeRow simula QueryRow devolviendo un error fijo en Scan.
type fakeRow struct{ err error }

func (r fakeRow) Scan(...any) error { return r.err }

type rowQuerier struct {
	Querier
	err error
}

func (q rowQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return fakeRow{q.err} }

func TestQueryOne_IDMalFormadoEsSinFilas(t *testing.T) {
	q := rowQuerier{err: &pgconn.PgError{Code: "22P02"}}
	repo := NewSolicitudRepository(q)

	s, err := repo.GetByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestQueryOne_OtrosErroresSePropagan(t *testing.T) {
	boom := errors.New("conexión perdida")
	repo := NewSolicitudRepository(rowQuerier{err: boom})

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, boom)
}

func TestAffected_SinFilasEsNotFound(t *testing.T) {
	assert.ErrorIs(t, affected(pgconn.NewCommandTag("UPDATE 0"), "equipo", "x"), domain.ErrNotFound)
	assert.NoError(t, affected(pgconn.NewCommandTag("UPDATE 1"), "equipo", "x"))
}

func TestEquipmentWhere_SoloFiltrosPresentes(t *testing.T) {
	query, args, err := psql.Select("COUNT(*)").From("equipos e").
		Where(equipmentWhere(repository.EquipmentFilter{LocationID: "loc-1", Search: "dell"})).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "e.ubicacion_id = $1")
	assert.Contains(t, query, "e.codigo_inventario ILIKE $2")
	assert.NotContains(t, query, "tipo_id")
	assert.Equal(t, []any{"loc-1", "%dell%", "%dell%", "%dell%"}, args)
}

func TestEquipmentWhere_SinFiltros(t *testing.T) {
	query, args, err := psql.Select("COUNT(*)").From("equipos e").Where(equipmentWhere(repository.EquipmentFilter{})).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "(1=1)")
	assert.Empty(t, args)
}

func TestCatalogTable_TipoDesconocido(t *testing.T) {
	_, err := catalogTable(entity.CatalogKind("marcas"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	table, err := catalogTable(entity.CatalogLocation)
	require.NoError(t, err)
	assert.Equal(t, "ubicaciones", table)
}

func TestIlike_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%portátil%", ilike("  portátil "))
	assert.Equal(t, `%EQ\_01%`, ilike("EQ_01"))
	assert.Equal(t, `%100\%%`, ilike("100%"))
	assert.Equal(t, `%a\\b%`, ilike(`a\b`))
}
