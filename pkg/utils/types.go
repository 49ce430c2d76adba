package utils

import (
	"strconv"
	"strings"
)

// Wire shape of the ULIP LDB/01 response. Only the fields this service reads
// are declared; the rest of the payload is ignored.
type trailResponse struct {
	Response []trailEnvelope `json:"response"`
}

type trailEnvelope struct {
	Response trailBody `json:"response"`
}

type trailBody struct {
	EximContainerTrail containerTrail `json:"eximContainerTrail"`
}

type containerTrail struct {
	CntrDetail containerDetail `json:"cntrDetail"`
	LastEvent  []trailEvent    `json:"last_event"`
}

type containerDetail struct {
	Cntrno string `json:"cntrno"`
}

type trailEvent struct {
	TimestampTimezone *string   `json:"timestamptimezone"`
	EventName         *string   `json:"eventname"`
	CurrentLocation   *string   `json:"currentlocation"`
	Latitude          flexFloat `json:"latitude"`
	Longitude         flexFloat `json:"longitude"`
}

// flexFloat decodes a coordinate the provider serializes sometimes as a
// number and sometimes as a string. Anything non-numeric (including null and
// "N/A") is treated as absent rather than failing the whole payload.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.value, f.valid = v, true
	return nil
}

// Ptr returns the parsed coordinate, or nil when absent.
func (f flexFloat) Ptr() *float64 {
	if !f.valid {
		return nil
	}
	v := f.value
	return &v
}
