package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// LocationRepository puerto de persistencia para ubicaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	GetByCode(code string) (*entity.Location, error)
	List(limit, offset int) ([]*entity.Location, error)
	Update(location *entity.Location) error
	Delete(id string) error
}
