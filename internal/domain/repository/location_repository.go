package repository

import (
	"context"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
)

// LocationRepository defines the interface for port location lookups
type LocationRepository interface {
	GetByName(ctx context.Context, name string) (*entity.Location, error)
}
