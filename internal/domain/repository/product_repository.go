package repository

import "github.com/tu-usuario/almacen-api/internal/domain/entity"

// ProductRepository puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// List con búsqueda insensible a acentos sobre nombre y SKU (search ya
	// viene normalizado por pkg/search).
	List(search string, limit, offset int) ([]*entity.Product, error)
	Count(search string) (int, error)
	Delete(id string) error
}
