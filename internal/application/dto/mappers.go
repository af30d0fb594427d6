package dto

import "github.com/jhoicas/tesa-inventario/internal/domain/entity"

// UserSummaryFrom proyección de usuario embebida.
func UserSummaryFrom(u entity.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummaryPtr igual que UserSummaryFrom pero admite nil.
func UserSummaryPtr(u *entity.UserSummary) *UserSummaryResponse {
	if u == nil {
		return nil
	}
	out := UserSummaryFrom(*u)
	return &out
}

// EquipmentSummaryFrom proyección de equipo embebida.
func EquipmentSummaryFrom(e entity.EquipmentSummary) EquipmentSummaryResponse {
	return EquipmentSummaryResponse{ID: e.ID, InventoryCode: e.InventoryCode, Name: e.Name}
}

// UserResponseFrom convierte la entidad sin exponer el hash.
func UserResponseFrom(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
