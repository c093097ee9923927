package entity

import "time"

// Roles de operador del panel de sincronización.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User es un operador con acceso a la API de sincronización.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | operador
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
