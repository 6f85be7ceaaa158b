package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario
// (colaborador externo, solo lectura desde el núcleo).
type Warehouse struct {
	ID        string
	Name      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
