package entity

import (
	"time"
)

// TrackingEvent is the flattened form of the most recent trail event in a
// provider response. Every field other than the container number is optional;
// the provider's schema guarantees none of them.
type TrackingEvent struct {
	ContainerNumber string
	EventTimestamp  *time.Time
	EventName       *string
	Location        *string
	Latitude        *float64
	Longitude       *float64
}

// DelayClassification is derived on every status read and never stored.
type DelayClassification struct {
	IsDelayed    bool
	DelayMinutes float64
}

// ClassifyDelay compares now against the originally booked arrival time.
// The revised arrival time plays no part here even when one is known.
func ClassifyDelay(r *BookingRecord, now time.Time) DelayClassification {
	if !now.After(r.ExpectedArrivalTime) {
		return DelayClassification{}
	}
	return DelayClassification{
		IsDelayed:    true,
		DelayMinutes: now.Sub(r.ExpectedArrivalTime).Minutes(),
	}
}
