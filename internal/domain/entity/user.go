package entity

import "time"

// Role es el rol de un usuario. Conjunto cerrado: ver Roles.
type Role string

// Roles válidos para User.
const (
	RoleAdministrador Role = "administrador"
	RoleTecnico       Role = "tecnico"
	RoleUsuario       Role = "usuario"
)

// Roles lista los roles en orden de privilegio descendente.
var Roles = []Role{RoleAdministrador, RoleTecnico, RoleUsuario}

// Valid indica si r es uno de los roles conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrador, RoleTecnico, RoleUsuario:
		return true
	}
	return false
}

// User representa un usuario del sistema. Nunca se borra físicamente: se desactiva.
type User struct {
	ID           string
	Name         string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary es la proyección mínima de un usuario que se incluye en otras respuestas.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
