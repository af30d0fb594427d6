package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tesa-inventario/internal/application/auth"
	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/authz"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo administradores).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario con cualquier rol.
func (uc *UserUseCase) Create(ctx context.Context, actor authz.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := authz.Require(actor, authz.UsersManage); err != nil {
		return nil, err
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: rol %q no válido", domain.ErrInvalidInput, in.Role)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.checkUnique(ctx, "", email, in.Username); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.UserResponseFrom(user), nil
}

func (uc *UserUseCase) checkUnique(ctx context.Context, selfID, email, username string) error {
	if email != "" {
		u, err := uc.repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return domain.ErrEmailAlreadyExists
		}
	}
	if username != "" {
		u, err := uc.repo.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if u != nil && u.ID != selfID {
			return fmt.Errorf("%w: el nombre de usuario ya existe", domain.ErrDuplicate)
		}
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, actor authz.Actor, id string) (*dto.UserResponse, error) {
	if err := authz.Require(actor, authz.UsersManage); err != nil {
		return nil, err
	}
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.UserResponseFrom(user), nil
}

func (uc *UserUseCase) get(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// List lista usuarios con filtros opcionales de rol, estado y texto.
func (uc *UserUseCase) List(ctx context.Context, actor authz.Actor, q dto.UserListQuery, page dto.PageRequest) (*dto.Page[dto.UserResponse], error) {
	if err := authz.Require(actor, authz.UsersManage); err != nil {
		return nil, err
	}
	page.Normalize()
	filter := repository.UserFilter{Search: strings.TrimSpace(q.Search)}
	if q.Role != "" {
		role := entity.Role(q.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol %q no válido", domain.ErrInvalidInput, q.Role)
		}
		filter.Role = &role
	}
	if q.Active != "" {
		active := q.Active == "true"
		filter.Active = &active
	}
	users, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *dto.UserResponseFrom(u))
	}
	return &dto.Page[dto.UserResponse]{Items: items, Pagination: dto.NewPagination(page, total)}, nil
}

// Update aplica los campos presentes. Email y username siguen siendo únicos.
func (uc *UserUseCase) Update(ctx context.Context, actor authz.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := authz.Require(actor, authz.UsersManage); err != nil {
		return nil, err
	}
	user, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	var email, username string
	if in.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*in.Email))
		user.Email = email
	}
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		user.Username = username
	}
	if err := uc.checkUnique(ctx, user.ID, email, username); err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol %q no válido", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = role
	}
	if in.Active != nil {
		user.Active = *in.Active
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.UserResponseFrom(user), nil
}

// Deactivate desactiva al usuario; nunca se borra físicamente. Un administrador no se desactiva a sí mismo.
func (uc *UserUseCase) Deactivate(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.Require(actor, authz.UsersManage); err != nil {
		return err
	}
	if actor.ID == id {
		return fmt.Errorf("%w: no puede desactivar su propia cuenta", domain.ErrConflict)
	}
	user, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	user.Active = false
	user.UpdatedAt = time.Now().UTC()
	return uc.repo.Update(ctx, user)
}
