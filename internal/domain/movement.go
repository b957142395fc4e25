package domain

import "time"

type Tipo string

const (
	TipoIngreso Tipo = "ingreso"
	TipoEgreso  Tipo = "egreso"
)

func (t Tipo) Valid() bool {
	return t == TipoIngreso || t == TipoEgreso
}

// MovementOwner es el usuario dueño de un movimiento tal como se expone en la API
type MovementOwner struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type Movement struct {
	ID        string         `json:"id"`
	Concepto  string         `json:"concepto"`
	Monto     float64        `json:"monto"`
	Fecha     Fecha          `json:"fecha"`
	Tipo      Tipo           `json:"tipo"`
	UserID    string         `json:"userId"`
	User      *MovementOwner `json:"user,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// CreateMovementRequest acepta monto como número o como texto numérico
type CreateMovementRequest struct {
	UserID   string `json:"userId"`
	Concepto string `json:"concepto"`
	Monto    any    `json:"monto"`
	Fecha    string `json:"fecha"`
	Tipo     Tipo   `json:"tipo"`
}
