package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	repoimpl "github.com/dockervision/ulip-vehicle-management/internal/interface/repository"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"
	"github.com/dockervision/ulip-vehicle-management/pkg/metrics"
	"github.com/dockervision/ulip-vehicle-management/pkg/utils"
)

// prometheus collectors register globally, so the package shares one set
var testMetrics = metrics.NewMetrics("test_ulip_vbs")

// stubProvider serves a canned payload per container number.
type stubProvider struct {
	payloads map[string][]byte
	err      error
}

func (p *stubProvider) FetchTrail(ctx context.Context, containerNumber string) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	if payload, ok := p.payloads[containerNumber]; ok {
		return payload, nil
	}
	return nil, fmt.Errorf("%w: no trail for %s", entity.ErrProviderUnavailable, containerNumber)
}

func trailPayload(containerNumber, timestamp string) []byte {
	event := `"eventname": "Train arrival", "currentlocation": "ICD TUGHLAKABAD"`
	if timestamp != "" {
		event = fmt.Sprintf(`"timestamptimezone": %q, `+event, timestamp)
	}
	return []byte(fmt.Sprintf(`{
		"response": [{
			"response": {
				"eximContainerTrail": {
					"cntrDetail": {"cntrno": %q},
					"last_event": [{%s}]
				}
			}
		}]
	}`, containerNumber, event))
}

func newTestProcessor(t *testing.T, provider *stubProvider, records []entity.BookingRecord) (*TrackingProcessor, *repoimpl.MemoryBookingRepository) {
	t.Helper()

	registry := repoimpl.NewMemoryBookingRepository(logger.NewNop())
	registry.Seed(records)

	extractor := utils.NewTrailExtractor(nil, logger.NewNop())
	return NewTrackingProcessor(registry, provider, extractor, testMetrics, logger.NewNop()), registry
}

func pendingBooking(containerNumber string, expected time.Time) entity.BookingRecord {
	return entity.BookingRecord{
		ContainerNumber:     containerNumber,
		BookingTime:         expected,
		ExpectedArrivalTime: expected,
		Status:              entity.StatusPending,
	}
}

func TestReconcileIdempotent(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)
	provider := &stubProvider{payloads: map[string][]byte{
		"SEGU1257939": trailPayload("SEGU1257939", "2023-02-12 17:15:00"),
	}}
	processor, _ := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SEGU1257939", baseline),
	})
	ctx := context.Background()

	first, err := processor.Reconcile(ctx, "SEGU1257939")
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if got := *first.TimeDifferenceMinutes; got != 60.0 {
		t.Fatalf("TimeDifferenceMinutes = %v, want 60.0", got)
	}

	second, err := processor.Reconcile(ctx, "SEGU1257939")
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if got := *second.TimeDifferenceMinutes; got != 60.0 {
		t.Errorf("TimeDifferenceMinutes after repeat = %v, want 60.0 (no compounding)", got)
	}
}

func TestReconcileNegativeDiff(t *testing.T) {
	baseline := time.Date(2023, 2, 17, 20, 57, 23, 0, time.UTC)
	provider := &stubProvider{payloads: map[string][]byte{
		"SSMU2151610": trailPayload("SSMU2151610", "2023-02-17 20:27:23"),
	}}
	processor, _ := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SSMU2151610", baseline),
	})

	updated, err := processor.Reconcile(context.Background(), "SSMU2151610")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := *updated.TimeDifferenceMinutes; got != -30.0 {
		t.Errorf("TimeDifferenceMinutes = %v, want -30.0", got)
	}
}

func TestReconcileUnknownContainer(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)
	provider := &stubProvider{payloads: map[string][]byte{
		"NOPE0000000": trailPayload("NOPE0000000", "2023-02-12 17:15:00"),
	}}
	processor, registry := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SEGU1257939", baseline),
	})
	ctx := context.Background()

	before, _ := registry.Get(ctx, "SEGU1257939")

	_, err := processor.Reconcile(ctx, "NOPE0000000")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	after, _ := registry.Get(ctx, "SEGU1257939")
	if !reflect.DeepEqual(before, after) {
		t.Error("existing record changed by a NotFound reconcile")
	}
}

func TestReconcileNoTimestamp(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)
	provider := &stubProvider{payloads: map[string][]byte{
		"SEGU1257939": trailPayload("SEGU1257939", ""),
	}}
	processor, registry := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SEGU1257939", baseline),
	})
	ctx := context.Background()

	before, _ := registry.Get(ctx, "SEGU1257939")

	_, err := processor.Reconcile(ctx, "SEGU1257939")
	if !errors.Is(err, entity.ErrNoTimestamp) {
		t.Fatalf("err = %v, want ErrNoTimestamp", err)
	}

	after, _ := registry.Get(ctx, "SEGU1257939")
	if !reflect.DeepEqual(before, after) {
		t.Error("record changed despite NoTimestamp failure")
	}
}

func TestReconcileProviderErrors(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)

	tests := []struct {
		name    string
		provide *stubProvider
		want    error
	}{
		{"auth failure", &stubProvider{err: fmt.Errorf("%w: status 401", entity.ErrProviderAuth)}, entity.ErrProviderAuth},
		{"fetch failure reported as not found", &stubProvider{err: fmt.Errorf("%w: timeout", entity.ErrProviderUnavailable)}, entity.ErrNotFound},
		{"garbage payload", &stubProvider{payloads: map[string][]byte{"SEGU1257939": []byte(`{"response": []}`)}}, entity.ErrExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, _ := newTestProcessor(t, tt.provide, []entity.BookingRecord{
				pendingBooking("SEGU1257939", baseline),
			})
			_, err := processor.Reconcile(context.Background(), "SEGU1257939")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReconcileFetchFailureReportsNotFound(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)
	provider := &stubProvider{err: fmt.Errorf("%w: connection refused", entity.ErrProviderUnavailable)}
	processor, _ := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SEGU1257939", baseline),
	})

	_, err := processor.Reconcile(context.Background(), "SEGU1257939")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if errors.Is(err, entity.ErrProviderUnavailable) {
		t.Error("reconcile leaked the raw provider failure type")
	}
}

func TestConfirmGateArrival(t *testing.T) {
	baseline := time.Date(2023, 2, 21, 6, 0, 48, 0, time.UTC)
	processor, _ := newTestProcessor(t, &stubProvider{}, []entity.BookingRecord{
		pendingBooking("TSLU3052136", baseline),
	})
	ctx := context.Background()

	firstInstant := baseline.Add(10 * time.Minute)
	processor.now = func() time.Time { return firstInstant }

	updated, err := processor.ConfirmGateArrival(ctx, "TSLU3052136")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if updated.Status != entity.StatusArrived {
		t.Fatalf("Status = %v, want Arrived", updated.Status)
	}
	if updated.GateArrivalTime == nil || !updated.GateArrivalTime.Equal(firstInstant) {
		t.Fatalf("GateArrivalTime = %v, want %v", updated.GateArrivalTime, firstInstant)
	}

	// re-confirmation keeps Arrived and refreshes the gate time
	secondInstant := firstInstant.Add(5 * time.Minute)
	processor.now = func() time.Time { return secondInstant }

	again, err := processor.ConfirmGateArrival(ctx, "TSLU3052136")
	if err != nil {
		t.Fatalf("re-confirm: %v", err)
	}
	if again.Status != entity.StatusArrived {
		t.Errorf("Status = %v after re-confirm", again.Status)
	}
	if !again.GateArrivalTime.Equal(secondInstant) {
		t.Errorf("GateArrivalTime = %v, want refreshed %v", again.GateArrivalTime, secondInstant)
	}
}

func TestConfirmGateArrivalUnknownContainer(t *testing.T) {
	processor, _ := newTestProcessor(t, &stubProvider{}, nil)

	_, err := processor.ConfirmGateArrival(context.Background(), "NOPE0000000")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStatusMergesLiveTrail(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)
	provider := &stubProvider{payloads: map[string][]byte{
		"SEGU1257939": trailPayload("SEGU1257939", "2023-02-12 17:15:00"),
	}}
	processor, registry := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SEGU1257939", baseline),
	})
	ctx := context.Background()

	now := baseline.Add(30 * time.Minute)
	processor.now = func() time.Time { return now }

	status, err := processor.Status(ctx, "SEGU1257939")
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	if status.TimeDifferenceMinutes == nil || *status.TimeDifferenceMinutes != 60.0 {
		t.Errorf("TimeDifferenceMinutes = %v, want 60.0", status.TimeDifferenceMinutes)
	}
	if !status.Delay.IsDelayed || status.Delay.DelayMinutes != 30.0 {
		t.Errorf("Delay = %+v, want delayed by 30 minutes against the baseline", status.Delay)
	}
	if status.Trail == nil || status.Trail.EventName == nil {
		t.Error("Trail details missing from status")
	}

	// the status path must not persist the revised figures
	stored, _ := registry.Get(ctx, "SEGU1257939")
	if stored.RevisedArrivalTime != nil || stored.TimeDifferenceMinutes != nil {
		t.Error("status query mutated the stored record")
	}
}

func TestStatusSurfacesProviderTroubleAsUnavailable(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)

	tests := []struct {
		name    string
		provide *stubProvider
	}{
		{"auth failure", &stubProvider{err: fmt.Errorf("%w: status 401", entity.ErrProviderAuth)}},
		{"malformed payload", &stubProvider{payloads: map[string][]byte{"SEGU1257939": []byte(`{}`)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor, _ := newTestProcessor(t, tt.provide, []entity.BookingRecord{
				pendingBooking("SEGU1257939", baseline),
			})
			_, err := processor.Status(context.Background(), "SEGU1257939")
			if !errors.Is(err, entity.ErrProviderUnavailable) {
				t.Errorf("err = %v, want ErrProviderUnavailable", err)
			}
		})
	}
}

func TestStatusUnknownContainerSkipsProvider(t *testing.T) {
	provider := &stubProvider{err: fmt.Errorf("%w: should not be called", entity.ErrProviderUnavailable)}
	processor, _ := newTestProcessor(t, provider, nil)

	_, err := processor.Status(context.Background(), "NOPE0000000")
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound before any provider call", err)
	}
}

func TestReconcilePendingSkipsFailuresAndArrived(t *testing.T) {
	baseline := time.Date(2023, 2, 12, 16, 15, 0, 0, time.UTC)
	provider := &stubProvider{payloads: map[string][]byte{
		"SEGU1257939": trailPayload("SEGU1257939", "2023-02-12 17:15:00"),
		// SSMU2151610 intentionally has no trail
	}}
	processor, registry := newTestProcessor(t, provider, []entity.BookingRecord{
		pendingBooking("SEGU1257939", baseline),
		pendingBooking("SSMU2151610", baseline),
		pendingBooking("TSLU3052136", baseline),
	})
	ctx := context.Background()

	if _, err := processor.ConfirmGateArrival(ctx, "TSLU3052136"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if err := processor.ReconcilePending(ctx); err != nil {
		t.Fatalf("reconcile pending: %v", err)
	}

	reconciled, _ := registry.Get(ctx, "SEGU1257939")
	if reconciled.TimeDifferenceMinutes == nil || *reconciled.TimeDifferenceMinutes != 60.0 {
		t.Errorf("pending booking not reconciled: %+v", reconciled)
	}

	arrived, _ := registry.Get(ctx, "TSLU3052136")
	if arrived.RevisedArrivalTime != nil {
		t.Error("arrived booking was reconciled by the pending sweep")
	}
}

func TestConcurrentReconcilesDistinctContainers(t *testing.T) {
	baseline := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	const n = 8
	payloads := make(map[string][]byte, n)
	records := make([]entity.BookingRecord, 0, n)
	for i := 0; i < n; i++ {
		number := fmt.Sprintf("TEST%07d", i)
		records = append(records, pendingBooking(number, baseline))
		payloads[number] = trailPayload(number, baseline.Add(time.Duration(i+1)*time.Minute).Format("2006-01-02 15:04:05"))
	}
	processor, registry := newTestProcessor(t, &stubProvider{payloads: payloads}, records)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := processor.Reconcile(ctx, fmt.Sprintf("TEST%07d", i)); err != nil {
				t.Errorf("reconcile %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		rec, err := registry.Get(ctx, fmt.Sprintf("TEST%07d", i))
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got := *rec.TimeDifferenceMinutes; got != float64(i+1) {
			t.Errorf("container %d diff = %v, want %v", i, got, float64(i+1))
		}
	}
}
