package repository

import (
	"context"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
)

// FixtureBookingSeedRepository serves the built-in demo booking set, used
// when no MongoDB DSN is configured.
type FixtureBookingSeedRepository struct{}

// NewFixtureBookingSeedRepository creates the fixture seed source
func NewFixtureBookingSeedRepository() repository.BookingSeedSource {
	return &FixtureBookingSeedRepository{}
}

// Fixture times are Indian port wall time, matching how the static location
// fallback interprets trail timestamps.
var fixtureZone = time.FixedZone("IST", 5*3600+1800)

// LoadBookings returns the demo bookings.
func (r *FixtureBookingSeedRepository) LoadBookings(ctx context.Context) ([]entity.BookingRecord, error) {
	return []entity.BookingRecord{
		booking("SEGU1257939", "2023-02-12 16:15:00", "2023-02-12 16:15:00"),
		booking("SSMU2151610", "2023-02-17 21:50:23", "2023-02-17 20:57:23"),
		booking("TSLU3052136", "2023-02-21 04:00:48", "2023-02-21 06:00:48"),
		booking("TRHU3282355", "2023-01-14 19:51:18", "2023-01-14 15:51:18"),
		booking("CAXU8093913", "2022-12-03 01:00:00", "2022-12-31 02:23:00"),
	}, nil
}

func booking(containerNumber, bookingTime, expectedArrival string) entity.BookingRecord {
	const layout = "2006-01-02 15:04:05"
	bt, _ := time.ParseInLocation(layout, bookingTime, fixtureZone)
	ea, _ := time.ParseInLocation(layout, expectedArrival, fixtureZone)
	return entity.BookingRecord{
		ContainerNumber:     containerNumber,
		BookingTime:         bt,
		ExpectedArrivalTime: ea,
		Status:              entity.StatusPending,
	}
}
