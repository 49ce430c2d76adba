package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"
)

// MemoryBookingRepository keeps every booking record in process memory.
// Each record lives in its own slot with its own mutex, so writers to the
// same container are serialized while different containers never block each
// other. The slot map itself only grows at seed time, guarded by an RWMutex.
// Nothing is durable; a restart starts over from the seed source.
type MemoryBookingRepository struct {
	logger logger.Logger

	mu    sync.RWMutex
	slots map[string]*bookingSlot
}

type bookingSlot struct {
	mu     sync.Mutex
	record entity.BookingRecord
}

// NewMemoryBookingRepository creates an empty registry
func NewMemoryBookingRepository(logger logger.Logger) *MemoryBookingRepository {
	return &MemoryBookingRepository{
		logger: logger,
		slots:  make(map[string]*bookingSlot),
	}
}

// Seed loads the initial booking set. Records without a status default to
// Pending. Re-seeding an existing container number replaces its record.
func (r *MemoryBookingRepository) Seed(records []entity.BookingRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		if rec.Status == "" {
			rec.Status = entity.StatusPending
		}
		r.slots[rec.ContainerNumber] = &bookingSlot{record: rec}
	}
	r.logger.Info("Seeded booking registry", "count", len(records))
}

func (r *MemoryBookingRepository) slot(containerNumber string) (*bookingSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[containerNumber]
	if !ok {
		return nil, fmt.Errorf("container %s: %w", containerNumber, entity.ErrNotFound)
	}
	return s, nil
}

// Get returns a deep copy of the record so readers never observe a record
// mid-update.
func (r *MemoryBookingRepository) Get(ctx context.Context, containerNumber string) (*entity.BookingRecord, error) {
	s, err := r.slot(containerNumber)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone(), nil
}

// Query returns bookings with booking time in the closed interval
// [start, end], ordered by booking time then container number. An inverted
// range yields an empty slice.
func (r *MemoryBookingRepository) Query(ctx context.Context, start, end time.Time) ([]entity.BookingSummary, error) {
	summaries := make([]entity.BookingSummary, 0)
	if end.Before(start) {
		return summaries, nil
	}

	r.mu.RLock()
	slots := make([]*bookingSlot, 0, len(r.slots))
	for _, s := range r.slots {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	for _, s := range slots {
		s.mu.Lock()
		bt := s.record.BookingTime
		if !bt.Before(start) && !bt.After(end) {
			summaries = append(summaries, entity.BookingSummary{
				ContainerNumber:     s.record.ContainerNumber,
				BookingTime:         s.record.BookingTime,
				ExpectedArrivalTime: s.record.ExpectedArrivalTime,
			})
		}
		s.mu.Unlock()
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].BookingTime.Equal(summaries[j].BookingTime) {
			return summaries[i].BookingTime.Before(summaries[j].BookingTime)
		}
		return summaries[i].ContainerNumber < summaries[j].ContainerNumber
	})

	return summaries, nil
}

// Update runs mutate on a working copy under the slot lock and writes the
// copy back only when the mutator succeeds, so failures are all-or-nothing.
func (r *MemoryBookingRepository) Update(ctx context.Context, containerNumber string, mutate func(*entity.BookingRecord) error) (*entity.BookingRecord, error) {
	s, err := r.slot(containerNumber)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.record.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	s.record = *working
	return working.Clone(), nil
}

// Pending lists container numbers still awaiting gate arrival.
func (r *MemoryBookingRepository) Pending(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	slots := make([]*bookingSlot, 0, len(r.slots))
	for _, s := range r.slots {
		slots = append(slots, s)
	}
	r.mu.RUnlock()

	numbers := make([]string, 0, len(slots))
	for _, s := range slots {
		s.mu.Lock()
		if s.record.Status == entity.StatusPending {
			numbers = append(numbers, s.record.ContainerNumber)
		}
		s.mu.Unlock()
	}
	sort.Strings(numbers)
	return numbers, nil
}

var _ repository.BookingRepository = (*MemoryBookingRepository)(nil)
