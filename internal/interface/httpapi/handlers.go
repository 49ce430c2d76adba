package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dockervision/ulip-vehicle-management/internal/domain/entity"
	"github.com/dockervision/ulip-vehicle-management/internal/usecase"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"
	"github.com/dockervision/ulip-vehicle-management/pkg/utils"
)

// timeLayout is the wire format the booking system has always used.
const timeLayout = "2006-01-02 15:04:05"

// Wire timestamps are naive Indian port wall time. Query bounds parse and
// record times render in the same zone, so a booking_time taken from a
// response works as a range bound.
var wireZone = time.FixedZone("IST", 5*3600+1800)

// TrackingHandler exposes the booking reconciliation operations over HTTP.
type TrackingHandler struct {
	Processor *usecase.TrackingProcessor
	Logger    logger.Logger
}

// Health reports liveness
func (h *TrackingHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Healthy"))
}

// ListContainers handles GET /api/containers?start_time=..&end_time=..
func (h *TrackingHandler) ListContainers(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r, "start_time")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	end, err := parseTimeParam(r, "end_time")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	summaries, err := h.Processor.ListBookings(r.Context(), start, end)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res := make([]containerSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		res = append(res, containerSummaryResponse{
			ContainerNumber:     s.ContainerNumber,
			BookingTime:         s.BookingTime.In(wireZone).Format(timeLayout),
			ExpectedArrivalTime: s.ExpectedArrivalTime.In(wireZone).Format(timeLayout),
		})
	}
	h.writeJSON(w, r, http.StatusOK, res)
}

// ContainerStatus handles GET /api/container/status/{containerNumber}
func (h *TrackingHandler) ContainerStatus(w http.ResponseWriter, r *http.Request) {
	containerNumber := r.PathValue("containerNumber")
	if containerNumber == "" {
		h.writeError(w, r, &entity.ValidationError{Field: "containerNumber", Reason: "required"})
		return
	}

	status, err := h.Processor.Status(r.Context(), containerNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res := containerStatusResponse{
		ContainerNumber:        status.Record.ContainerNumber,
		BookingTime:            status.Record.BookingTime.In(wireZone).Format(timeLayout),
		ExpectedArrivalTime:    status.Record.ExpectedArrivalTime.In(wireZone).Format(timeLayout),
		NewExpectedArrivalTime: formatTimePtr(status.RevisedArrivalTime),
		TimeDifference:         status.TimeDifferenceMinutes,
		IsDelayed:              status.Delay.IsDelayed,
		DelayMinutes:           status.Delay.DelayMinutes,
		Status:                 string(status.Record.Status),
	}
	if status.Trail != nil {
		res.ContainerDetails = &trailDetailsResponse{
			Cntrno:            status.Trail.ContainerNumber,
			TimestampTimezone: formatTimePtr(status.Trail.EventTimestamp),
			EventName:         status.Trail.EventName,
			CurrentLocation:   status.Trail.Location,
			Latitude:          status.Trail.Latitude,
			Longitude:         status.Trail.Longitude,
		}
	}
	h.writeJSON(w, r, http.StatusOK, res)
}

// UpdateArrivalTime handles POST /api/update_container_arrival_time/{containerNumber}
func (h *TrackingHandler) UpdateArrivalTime(w http.ResponseWriter, r *http.Request) {
	containerNumber := r.PathValue("containerNumber")
	if containerNumber == "" {
		h.writeError(w, r, &entity.ValidationError{Field: "containerNumber", Reason: "required"})
		return
	}

	updated, err := h.Processor.Reconcile(r.Context(), containerNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, updateArrivalResponse{
		Message:                "Container arrival time updated successfully",
		ContainerNumber:        updated.ContainerNumber,
		NewExpectedArrivalTime: formatTimePtr(updated.RevisedArrivalTime),
		TimeDifference:         updated.TimeDifferenceMinutes,
	})
}

// OCRUpdate handles POST /api/ocr/update with {"container_number": ...}
func (h *TrackingHandler) OCRUpdate(w http.ResponseWriter, r *http.Request) {
	var req ocrUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, &entity.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}
	if req.ContainerNumber == "" {
		h.writeError(w, r, &entity.ValidationError{Field: "container_number", Reason: "required"})
		return
	}

	updated, err := h.Processor.ConfirmGateArrival(r.Context(), req.ContainerNumber)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, ocrUpdateResponse{
		Message:         "Container status updated successfully",
		ContainerNumber: updated.ContainerNumber,
		Status:          string(updated.Status),
		GateArrivalTime: formatTimePtr(updated.GateArrivalTime),
	})
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, &entity.ValidationError{Field: name, Reason: "required"}
	}
	t, err := utils.ParseTimestamp(raw, wireZone)
	if err != nil {
		return time.Time{}, &entity.ValidationError{Field: name, Reason: "unparseable timestamp"}
	}
	return t, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(wireZone).Format(timeLayout)
	return &s
}

func (h *TrackingHandler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Encode response failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

// writeError maps the failure taxonomy onto status codes.
func (h *TrackingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *entity.ValidationError
	var status int
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrNoTimestamp), errors.Is(err, entity.ErrExtraction):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrProviderAuth), errors.Is(err, entity.ErrProviderUnavailable):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

type containerSummaryResponse struct {
	ContainerNumber     string `json:"container_number"`
	BookingTime         string `json:"booking_time"`
	ExpectedArrivalTime string `json:"expected_arrival_time"`
}

type containerStatusResponse struct {
	ContainerNumber        string                `json:"container_number"`
	BookingTime            string                `json:"booking_time"`
	ExpectedArrivalTime    string                `json:"expected_arrival_time"`
	NewExpectedArrivalTime *string               `json:"new_expected_arrival_time"`
	TimeDifference         *float64              `json:"time_difference"`
	IsDelayed              bool                  `json:"is_delayed"`
	DelayMinutes           float64               `json:"delay_minutes"`
	Status                 string                `json:"status"`
	ContainerDetails       *trailDetailsResponse `json:"container_details"`
}

type trailDetailsResponse struct {
	Cntrno            string   `json:"cntrno"`
	TimestampTimezone *string  `json:"timestamptimezone"`
	EventName         *string  `json:"eventname"`
	CurrentLocation   *string  `json:"currentlocation"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

type updateArrivalResponse struct {
	Message                string   `json:"message"`
	ContainerNumber        string   `json:"container_number"`
	NewExpectedArrivalTime *string  `json:"new_expected_arrival_time"`
	TimeDifference         *float64 `json:"time_difference"`
}

type ocrUpdateRequest struct {
	ContainerNumber string `json:"container_number"`
}

type ocrUpdateResponse struct {
	Message         string  `json:"message"`
	ContainerNumber string  `json:"container_number"`
	Status          string  `json:"status"`
	GateArrivalTime *string `json:"gate_arrival_time"`
}
