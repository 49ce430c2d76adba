package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"
	"github.com/dockervision/ulip-vehicle-management/pkg/metrics"
	"github.com/dockervision/ulip-vehicle-management/pkg/utils"
)

// TrackingProcessor drives booking reconciliation against the live trail
// feed and the gate-arrival state machine.
type TrackingProcessor struct {
	bookingRepo repository.BookingRepository
	provider    repository.TrackingProvider
	extractor   *utils.TrailExtractor
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// NewTrackingProcessor creates a new tracking processor
func NewTrackingProcessor(
	bookingRepo repository.BookingRepository,
	provider repository.TrackingProvider,
	extractor *utils.TrailExtractor,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *TrackingProcessor {
	return &TrackingProcessor{
		bookingRepo: bookingRepo,
		provider:    provider,
		extractor:   extractor,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// ContainerStatus is the merged live view returned on status queries. The
// revised figures come from the fresh trail event; only Reconcile persists
// them to the record.
type ContainerStatus struct {
	Record                entity.BookingRecord
	RevisedArrivalTime    *time.Time
	TimeDifferenceMinutes *float64
	Delay                 entity.DelayClassification
	Trail                 *entity.TrackingEvent
}

// ListBookings returns bookings whose booking time falls in [start, end].
func (p *TrackingProcessor) ListBookings(ctx context.Context, start, end time.Time) ([]entity.BookingSummary, error) {
	return p.bookingRepo.Query(ctx, start, end)
}

// Reconcile fetches the live trail for a container and merges its latest
// event into the stored record. The provider round trip finishes before the
// record lock is taken, so slow network calls never serialize unrelated
// containers.
//
// A failed trail fetch reports the same way as an unknown container; auth
// and extraction failures keep their own types.
func (p *TrackingProcessor) Reconcile(ctx context.Context, containerNumber string) (*entity.BookingRecord, error) {
	event, err := p.fetchEvent(ctx, containerNumber)
	if err != nil {
		if errors.Is(err, entity.ErrProviderUnavailable) {
			return nil, fmt.Errorf("%w: failed to get container information for %s: %v", entity.ErrNotFound, containerNumber, err)
		}
		return nil, err
	}
	return p.ApplyEvent(ctx, containerNumber, event)
}

// ApplyEvent merges an already-extracted tracking event into the record.
// The time difference is recomputed from the immutable baseline on every
// call, so reapplying the same event cannot compound drift. An event without
// a timestamp fails with entity.ErrNoTimestamp and leaves the record alone.
func (p *TrackingProcessor) ApplyEvent(ctx context.Context, containerNumber string, event *entity.TrackingEvent) (*entity.BookingRecord, error) {
	updated, err := p.bookingRepo.Update(ctx, containerNumber, func(rec *entity.BookingRecord) error {
		if event.EventTimestamp == nil {
			return fmt.Errorf("container %s: %w", containerNumber, entity.ErrNoTimestamp)
		}
		rec.ApplyRevisedArrival(*event.EventTimestamp)
		return nil
	})
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("reconcile").Inc()
		return nil, err
	}

	p.metrics.Reconciliations.Inc()
	p.logger.Info("Reconciled container arrival",
		"container", containerNumber,
		"revisedArrivalTime", updated.RevisedArrivalTime,
		"timeDifferenceMinutes", *updated.TimeDifferenceMinutes)
	return updated, nil
}

// Status merges the stored record with a fresh provider trail and classifies
// the delay. Provider trouble of any kind surfaces as ErrProviderUnavailable
// on this path.
func (p *TrackingProcessor) Status(ctx context.Context, containerNumber string) (*ContainerStatus, error) {
	record, err := p.bookingRepo.Get(ctx, containerNumber)
	if err != nil {
		return nil, err
	}

	event, err := p.fetchEvent(ctx, containerNumber)
	if err != nil {
		if errors.Is(err, entity.ErrProviderAuth) || errors.Is(err, entity.ErrExtraction) {
			return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
		}
		return nil, err
	}

	status := &ContainerStatus{
		Record: *record,
		Delay:  entity.ClassifyDelay(record, p.now()),
		Trail:  event,
	}
	if event.EventTimestamp != nil {
		diff := event.EventTimestamp.Sub(record.ExpectedArrivalTime).Minutes()
		status.RevisedArrivalTime = event.EventTimestamp
		status.TimeDifferenceMinutes = &diff
	}
	return status, nil
}

// ConfirmGateArrival applies a gate/OCR confirmation, moving the booking to
// Arrived with the current instant as gate time. Re-confirming an Arrived
// container refreshes the gate time.
func (p *TrackingProcessor) ConfirmGateArrival(ctx context.Context, containerNumber string) (*entity.BookingRecord, error) {
	at := p.now()
	updated, err := p.bookingRepo.Update(ctx, containerNumber, func(rec *entity.BookingRecord) error {
		rec.ConfirmGateArrival(at)
		return nil
	})
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("gate_confirm").Inc()
		return nil, err
	}

	p.metrics.GateConfirmations.Inc()
	p.logger.Info("Gate arrival confirmed",
		"container", containerNumber,
		"gateArrivalTime", *updated.GateArrivalTime)
	return updated, nil
}

// ReconcilePending reconciles every Pending booking once. The background
// poll loop calls this; individual container failures are logged and skipped
// so one bad trail does not starve the rest.
func (p *TrackingProcessor) ReconcilePending(ctx context.Context) error {
	numbers, err := p.bookingRepo.Pending(ctx)
	if err != nil {
		return err
	}

	for _, containerNumber := range numbers {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := p.Reconcile(ctx, containerNumber); err != nil {
			p.logger.Warn("Background reconcile failed", "container", containerNumber, "error", err)
		}
	}
	return nil
}

// fetchEvent runs the provider round trip and extraction, with call timing
// recorded. No record lock is held here.
func (p *TrackingProcessor) fetchEvent(ctx context.Context, containerNumber string) (*entity.TrackingEvent, error) {
	start := time.Now()
	payload, err := p.provider.FetchTrail(ctx, containerNumber)
	p.metrics.ProviderCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("provider").Inc()
		return nil, err
	}

	event, err := p.extractor.Extract(ctx, payload)
	if err != nil {
		p.metrics.ErrorsCount.WithLabelValues("extract").Inc()
		return nil, err
	}
	return event, nil
}
