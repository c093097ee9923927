package repository

import "github.com/jhoicas/Marketsync-api/internal/domain/entity"

// BackendRepository define el puerto de persistencia para Backend.
type BackendRepository interface {
	GetByID(id string) (*entity.Backend, error)
	List() ([]*entity.Backend, error)
}

// MarketplaceRepository define el puerto de lectura de marketplaces.
type MarketplaceRepository interface {
	GetByID(id string) (*entity.Marketplace, error)
	List() ([]*entity.Marketplace, error)
}
