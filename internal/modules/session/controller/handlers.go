package controller

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"weathermon-server/internal/modules/session/types"
	"weathermon-server/internal/utils"
)

// maxStateBytes bounds the state blob; dashboard state is a few hundred
// bytes in practice.
const maxStateBytes = 64 << 10

type sessionResponse struct {
	SessionID string          `json:"session_id"`
	State     json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (c *sessionControllerImpl) handleCreate(w http.ResponseWriter, r *http.Request) {
	state, err := io.ReadAll(io.LimitReader(r.Body, maxStateBytes))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	id, err := c.service.Create(state)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (c *sessionControllerImpl) handleLoad(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sess, err := c.service.Load(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if sess == nil {
		utils.WriteError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		State:     json.RawMessage(sess.State),
		UpdatedAt: sess.UpdatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (c *sessionControllerImpl) handleSave(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	state, err := io.ReadAll(io.LimitReader(r.Body, maxStateBytes))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(state) == 0 {
		utils.WriteError(w, http.StatusBadRequest, "state body is required")
		return
	}

	if err := c.service.Save(id, state); err != nil {
		writeSessionError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"session_id": id})
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrInvalidState):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrStorageUnavailable):
		slog.Error("session storage unavailable", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		slog.Error("session request failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
