package httpapi

import (
	"net/http"

	"github.com/dockervision/ulip-vehicle-management/internal/usecase"
	"github.com/dockervision/ulip-vehicle-management/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the tracking endpoints. The paths mirror the booking
// system's existing API so the desktop client keeps working unchanged.
func NewRouter(processor *usecase.TrackingProcessor, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	h := &TrackingHandler{
		Processor: processor,
		Logger:    log,
	}

	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/containers", h.ListContainers)
	mux.HandleFunc("GET /api/container/status/{containerNumber}", h.ContainerStatus)
	mux.HandleFunc("POST /api/update_container_arrival_time/{containerNumber}", h.UpdateArrivalTime)
	mux.HandleFunc("POST /api/ocr/update", h.OCRUpdate)

	return loggingMiddleware(mux, log)
}
