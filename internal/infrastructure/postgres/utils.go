package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/tesa-inventario/internal/domain"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builder de squirrel con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila está referenciada o referencia algo que no existe.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

// writeErr traduce errores de escritura a errores de dominio.
func writeErr(err error, what string) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, what)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s está referenciado o referencia un registro inexistente", domain.ErrConflict, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// isInvalidText 22P02: un valor no se pudo convertir al tipo de la columna (p. ej. "abc" a UUID).
func isInvalidText(err error) bool {
	return pgCode(err) == "22P02"
}

// lookupErr traduce un identificador mal formado en el sentinel indicado: ErrNotFound al buscar
// por id, ErrInvalidInput en filtros de listados.
func lookupErr(err error, sentinel error) error {
	if err != nil && isInvalidText(err) {
		return fmt.Errorf("%w: identificador con formato inválido", sentinel)
	}
	return err
}

// affected devuelve ErrNotFound si la sentencia no tocó ninguna fila.
func affected(cmd pgconn.CommandTag, what, id string) error {
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id)
	}
	return nil
}

// execBuilder arma la sentencia con squirrel y la ejecuta.
func execBuilder(ctx context.Context, q Querier, b sq.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build sql: %w", err)
	}
	cmd, err := q.Exec(ctx, query, args...)
	return cmd, lookupErr(err, domain.ErrNotFound)
}

// count ejecuta un SELECT COUNT(*) construido con squirrel.
func count(ctx context.Context, q Querier, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", lookupErr(err, domain.ErrInvalidInput))
	}
	return n, nil
}

// queryRows ejecuta un SELECT construido con squirrel y escanea cada fila con scan.
func queryRows[T any](ctx context.Context, q Querier, b sq.SelectBuilder, scan func(pgx.Row) (*T, error)) ([]*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", lookupErr(err, domain.ErrInvalidInput))
	}
	defer rows.Close()
	var list []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, lookupErr(rows.Err(), domain.ErrInvalidInput)
}

// queryOne ejecuta un SELECT de una fila; sin filas o con id mal formado devuelve (nil, nil).
func queryOne[T any](ctx context.Context, q Querier, b sq.SelectBuilder, scan func(pgx.Row) (*T, error)) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	item, err := scan(q.QueryRow(ctx, query, args...))
	// Un id mal formado no puede existir: mismo contrato que sin filas.
	if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
		return nil, nil
	}
	return item, err
}

// page aplica LIMIT/OFFSET cuando limit > 0.
func page(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}

// likeEscaper escapa los comodines de LIKE; la barra invertida es el escape por defecto en PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ilike patrón de búsqueda libre con comodines a ambos lados. % y _ del usuario son literales.
func ilike(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}
