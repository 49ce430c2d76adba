package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/domain/repository"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"
)

// TrailExtractor flattens raw LDB/01 payloads into tracking events.
type TrailExtractor struct {
	locationRepo repository.LocationRepository
	logger       logger.Logger
}

// NewTrailExtractor creates a new trail extractor with dependencies
func NewTrailExtractor(locationRepo repository.LocationRepository, logger logger.Logger) *TrailExtractor {
	return &TrailExtractor{
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// Extract reads the first trail in the payload and flattens its first
// last_event entry. The provider places the most relevant trail first.
// Only a payload with no trail at all fails, with entity.ErrExtraction;
// missing leaf fields come back as nil.
func (e *TrailExtractor) Extract(ctx context.Context, payload []byte) (*entity.TrackingEvent, error) {
	var raw trailResponse
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrExtraction, err)
	}
	if len(raw.Response) == 0 {
		return nil, fmt.Errorf("%w: empty response list", entity.ErrExtraction)
	}

	trail := raw.Response[0].Response.EximContainerTrail
	event := &entity.TrackingEvent{
		ContainerNumber: trail.CntrDetail.Cntrno,
	}
	if len(trail.LastEvent) == 0 {
		return event, nil
	}

	last := trail.LastEvent[0]
	event.EventName = last.EventName
	event.Location = last.CurrentLocation
	event.Latitude = last.Latitude.Ptr()
	event.Longitude = last.Longitude.Ptr()

	if last.TimestampTimezone != nil && *last.TimestampTimezone != "" {
		ts, err := ParseTimestamp(*last.TimestampTimezone, e.eventLocation(ctx, last.CurrentLocation))
		if err != nil {
			e.logger.Warn("Unparseable trail timestamp",
				"container", event.ContainerNumber,
				"value", *last.TimestampTimezone,
				"error", err)
		} else {
			event.EventTimestamp = &ts
		}
	}

	return event, nil
}

// eventLocation resolves the timezone used for trail timestamps without an
// explicit offset. Unknown locations fall back to UTC.
func (e *TrailExtractor) eventLocation(ctx context.Context, name *string) *time.Location {
	if name == nil || e.locationRepo == nil {
		return time.UTC
	}
	ref, err := e.locationRepo.GetByName(ctx, *name)
	if err != nil {
		e.logger.Debug("No location reference", "location", *name, "error", err)
		return time.UTC
	}
	loc, err := time.LoadLocation(ref.TzName)
	if err != nil {
		// No tzdata for the name; the GMT offset column still works.
		if fixed := fixedZoneFromOffset(ref.GmtTz); fixed != nil {
			return fixed
		}
		e.logger.Warn("Bad tz name in location reference", "location", *name, "tzName", ref.TzName)
		return time.UTC
	}
	return loc
}

// fixedZoneFromOffset builds a zone from a "+05:30" style offset string.
func fixedZoneFromOffset(offset string) *time.Location {
	if len(offset) != 6 || (offset[0] != '+' && offset[0] != '-') || offset[3] != ':' {
		return nil
	}
	h, err1 := strconv.Atoi(offset[1:3])
	m, err2 := strconv.Atoi(offset[4:6])
	if err1 != nil || err2 != nil {
		return nil
	}
	sec := h*3600 + m*60
	if offset[0] == '-' {
		sec = -sec
	}
	return time.FixedZone("UTC"+offset, sec)
}
