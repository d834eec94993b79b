package controller

import (
	"net/http"

	"weathermon-server/internal/modules/session/service"
)

type SessionController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type sessionControllerImpl struct {
	service *service.Service
}

func NewSessionController(svc *service.Service) SessionController {
	return &sessionControllerImpl{service: svc}
}

func (c *sessionControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session", c.handleCreate)
	mux.HandleFunc("GET /api/session/{id}", c.handleLoad)
	mux.HandleFunc("PUT /api/session/{id}", c.handleSave)
}
