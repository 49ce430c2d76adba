// internal/domain/entity/booking.go
package entity

import (
	"time"
)

// BookingStatus is the arrival state of a booking
type BookingStatus string

const (
	StatusPending BookingStatus = "Pending"
	StatusArrived BookingStatus = "Arrived"
)

// BookingRecord is the per-container booking held by the registry.
// BookingTime and ExpectedArrivalTime are fixed at creation; the expected
// arrival time is the baseline every delay figure is measured against, it is
// never overwritten by the feed.
type BookingRecord struct {
	ContainerNumber       string        `json:"container_number" bson:"containerNumber"`
	BookingTime           time.Time     `json:"booking_time" bson:"bookingTime"`
	ExpectedArrivalTime   time.Time     `json:"expected_arrival_time" bson:"expectedArrivalTime"`
	RevisedArrivalTime    *time.Time    `json:"new_expected_arrival_time,omitempty" bson:"newExpectedArrivalTime,omitempty"`
	GateArrivalTime       *time.Time    `json:"gate_arrival_time,omitempty" bson:"gateArrivalTime,omitempty"`
	Status                BookingStatus `json:"status" bson:"status"`
	TimeDifferenceMinutes *float64      `json:"time_difference,omitempty" bson:"timeDifference,omitempty"`
}

// ApplyRevisedArrival sets the revised arrival time from a tracking event and
// recomputes the time difference. The difference is always taken against the
// original ExpectedArrivalTime, so applying the same event repeatedly keeps
// yielding the same value.
func (r *BookingRecord) ApplyRevisedArrival(revised time.Time) {
	diff := revised.Sub(r.ExpectedArrivalTime).Minutes()
	r.RevisedArrivalTime = &revised
	r.TimeDifferenceMinutes = &diff
}

// ConfirmGateArrival applies a gate/OCR confirmation. Confirming an already
// Arrived container just refreshes the gate time; there is no reverse
// transition.
func (r *BookingRecord) ConfirmGateArrival(at time.Time) {
	r.GateArrivalTime = &at
	r.Status = StatusArrived
}

// Clone returns a deep copy so callers never share pointers with the registry.
func (r *BookingRecord) Clone() *BookingRecord {
	c := *r
	if r.RevisedArrivalTime != nil {
		t := *r.RevisedArrivalTime
		c.RevisedArrivalTime = &t
	}
	if r.GateArrivalTime != nil {
		t := *r.GateArrivalTime
		c.GateArrivalTime = &t
	}
	if r.TimeDifferenceMinutes != nil {
		d := *r.TimeDifferenceMinutes
		c.TimeDifferenceMinutes = &d
	}
	return &c
}

// BookingSummary is the projection returned by range queries.
type BookingSummary struct {
	ContainerNumber     string    `json:"container_number"`
	BookingTime         time.Time `json:"booking_time"`
	ExpectedArrivalTime time.Time `json:"expected_arrival_time"`
}
