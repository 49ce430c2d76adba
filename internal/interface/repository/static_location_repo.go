package repository

import (
	"context"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
)

// StaticLocationRepository answers every lookup with India Standard Time.
// The ULIP feed covers Indian ports, so this is the right default when no
// reference database is configured.
type StaticLocationRepository struct{}

// NewStaticLocationRepository creates the static fallback
func NewStaticLocationRepository() repository.LocationRepository {
	return &StaticLocationRepository{}
}

// GetByName returns an IST location entry for any name
func (r *StaticLocationRepository) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	return &entity.Location{
		Name:   name,
		GmtTz:  "+05:30",
		TzName: "Asia/Kolkata",
	}, nil
}
