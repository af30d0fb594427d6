package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userColumns = []string{"id", "nombre", "username", "email", "password_hash", "rol", "activo", "created_at", "updated_at"}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// userWriteErr distingue email repetido de username repetido por el nombre del índice.
func userWriteErr(err error) error {
	if isUniqueViolation(err) {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_username_key" {
			return fmt.Errorf("%w: el nombre de usuario ya existe", domain.ErrDuplicate)
		}
		return domain.ErrEmailAlreadyExists
	}
	return writeErr(err, "usuario")
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := execBuilder(ctx, r.q, psql.Insert("users").Columns(userColumns...).Values(
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash, user.Role, user.Active,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return userWriteErr(err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return queryOne(ctx, r.q, psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id}), scanUser)
}

// GetByEmail busca sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return queryOne(ctx, r.q, psql.Select(userColumns...).From("users").Where("lower(email) = lower(?)", email), scanUser)
}

// GetByUsername busca sin distinguir mayúsculas.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return queryOne(ctx, r.q, psql.Select(userColumns...).From("users").Where("lower(username) = lower(?)", username), scanUser)
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	cmd, err := execBuilder(ctx, r.q, psql.Update("users").SetMap(map[string]any{
		"nombre":        user.Name,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"rol":           user.Role,
		"activo":        user.Active,
		"updated_at":    user.UpdatedAt,
	}).Where(sq.Eq{"id": user.ID}))
	if err != nil {
		return userWriteErr(err)
	}
	return affected(cmd, "usuario", user.ID)
}

// List lista usuarios por nombre con filtros opcionales y devuelve el total sin paginar.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter, limit, offset int) ([]*entity.User, int, error) {
	where := sq.And{}
	if f.Role != nil {
		where = append(where, sq.Eq{"rol": *f.Role})
	}
	if f.Active != nil {
		where = append(where, sq.Eq{"activo": *f.Active})
	}
	if f.Search != "" {
		pat := ilike(f.Search)
		where = append(where, sq.Or{sq.ILike{"nombre": pat}, sq.ILike{"username": pat}, sq.ILike{"email": pat}})
	}
	total, err := count(ctx, r.q, psql.Select("COUNT(*)").From("users").Where(where))
	if err != nil {
		return nil, 0, err
	}
	list, err := queryRows(ctx, r.q, page(psql.Select(userColumns...).From("users").Where(where).OrderBy("nombre ASC", "id ASC"), limit, offset), scanUser)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return list, total, nil
}
