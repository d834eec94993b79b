package controller

import (
	"net/http"

	"weathermon-server/internal/modules/observations/service"
	"weathermon-server/internal/regions"
)

type ObservationsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type observationsControllerImpl struct {
	service  *service.Service
	registry *regions.Registry
}

func NewObservationsController(svc *service.Service, registry *regions.Registry) ObservationsController {
	return &observationsControllerImpl{service: svc, registry: registry}
}

func (c *observationsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/regions", c.handleRegions)
	mux.HandleFunc("GET /api/weather-data", c.handleWeatherData)
	mux.HandleFunc("GET /api/stats", c.handleStats)
	mux.HandleFunc("GET /api/health", c.handleHealth)
	mux.HandleFunc("POST /api/observations", c.handleIngest)
}
