package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tesa-inventario/internal/application/dto"
	"github.com/jhoicas/tesa-inventario/internal/application/ports"
	"github.com/jhoicas/tesa-inventario/internal/domain"
	"github.com/jhoicas/tesa-inventario/internal/domain/entity"
	"github.com/jhoicas/tesa-inventario/internal/domain/repository"
	"github.com/jhoicas/tesa-inventario/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	guard    ports.LoginGuard
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth. guard puede ser nil (sin bloqueo por intentos).
func NewAuthUseCase(userRepo repository.UserRepository, guard ports.LoginGuard, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, guard: guard, jwtCfg: jwtCfg, log: log}
}

// HashPassword hashea con bcrypt (coste por defecto).
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// RegisterUser auto-registro: el rol siempre es usuario. Email y username únicos.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Username) == "" {
		return nil, fmt.Errorf("%w: nombre, usuario, email y password son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	byUsername, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if byUsername != nil {
		return nil, fmt.Errorf("%w: el nombre de usuario ya existe", domain.ErrDuplicate)
	}
	hash, err := HashPassword(in.Password)
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
		Role:         entity.RoleUsuario,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.UserResponseFrom(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Con guard configurado, tras N fallos la cuenta queda bloqueada temporalmente.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	key := strings.ToLower(strings.TrimSpace(in.Email))
	if uc.guard != nil {
		locked, err := uc.guard.Locked(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Msg("login guard no disponible")
		} else if locked {
			return nil, domain.ErrAccountLocked
		}
	}

	user, err := uc.userRepo.GetByEmail(ctx, key)
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, uc.failedAttempt(ctx, key)
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	if uc.guard != nil {
		if err := uc.guard.Reset(ctx, key); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo reiniciar el contador de intentos")
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *dto.UserResponseFrom(user),
	}, nil
}

func (uc *AuthUseCase) failedAttempt(ctx context.Context, key string) error {
	if uc.guard == nil {
		return fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	locked, err := uc.guard.RegisterFailure(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo registrar el intento fallido")
	}
	if locked {
		uc.log.Info().Str("email", key).Msg("cuenta bloqueada por intentos fallidos")
		return domain.ErrAccountLocked
	}
	return fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.UserResponseFrom(user), nil
}
