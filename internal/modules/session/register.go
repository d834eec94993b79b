package session

import (
	"net/http"

	"weathermon-server/internal/modules/session/controller"
	"weathermon-server/internal/modules/session/service"
)

// RegisterFeature wires the session HTTP routes.
func RegisterFeature(mux *http.ServeMux, svc *service.Service) {
	sessionController := controller.NewSessionController(svc)
	sessionController.RegisterRoutes(mux)
}
