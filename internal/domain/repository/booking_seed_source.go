package repository

import (
	"context"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
)

// BookingSeedSource supplies the initial booking set at startup. Booking
// creation lives in the (external) booking workflow; this service only ever
// imports, so the source is read-only and mutated state stays in memory.
type BookingSeedSource interface {
	LoadBookings(ctx context.Context) ([]entity.BookingRecord, error)
}
