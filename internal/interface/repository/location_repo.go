package repository

import (
	"context"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"

	"gorm.io/gorm"
)

// GormLocationRepository implements the LocationRepository interface
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GORM location repository
func NewGormLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &GormLocationRepository{
		db: db,
	}
}

// PortLocationList GORM model for database mapping
type PortLocationList struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"column:location_name;unique"`
	PortCode  string         `gorm:"column:portcode"`
	GmtTz     string         `gorm:"column:gmttz"`
	TzName    string         `gorm:"column:tzname"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (PortLocationList) TableName() string {
	return "m_port_location_list"
}

// GetByName finds a port location by the name the provider reports
func (r *GormLocationRepository) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	var loc PortLocationList
	result := r.db.WithContext(ctx).Where("location_name = ?", name).First(&loc)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.Location{
		ID:        loc.ID,
		Name:      loc.Name,
		PortCode:  loc.PortCode,
		GmtTz:     loc.GmtTz,
		TzName:    loc.TzName,
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}, nil
}
