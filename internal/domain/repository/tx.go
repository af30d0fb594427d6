package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Equipment   EquipmentRepository
	Catalogs    CatalogRepository
	Solicitudes SolicitudRepository
	Attachments AttachmentRepository
	Maintenance MaintenanceRepository
	Movements   MovementRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx TxRepos) error) error
}
