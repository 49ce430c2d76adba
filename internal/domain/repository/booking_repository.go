package repository

import (
	"context"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
)

// BookingRepository is the registry of container booking records. All
// mutation goes through Update so implementations can serialize writers per
// container; no other component writes record fields directly.
type BookingRepository interface {
	// Get returns a copy of the record, or entity.ErrNotFound.
	Get(ctx context.Context, containerNumber string) (*entity.BookingRecord, error)

	// Query returns every booking whose booking time lies in [start, end],
	// ordered by booking time ascending with ties broken by container number.
	// An inverted range yields an empty result.
	Query(ctx context.Context, start, end time.Time) ([]entity.BookingSummary, error)

	// Update runs mutate on the record under the container's write lock and
	// persists the result. A mutator error leaves the stored record untouched.
	Update(ctx context.Context, containerNumber string, mutate func(*entity.BookingRecord) error) (*entity.BookingRecord, error)

	// Pending lists the container numbers still awaiting gate arrival.
	Pending(ctx context.Context) ([]string, error)
}
