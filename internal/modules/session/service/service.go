// Package service validates dashboard state before it reaches the session
// store. Invalid state never overwrites a previously saved one.
package service

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	obstypes "weathermon-server/internal/modules/observations/types"
	"weathermon-server/internal/modules/session/repository"
	"weathermon-server/internal/modules/session/types"
)

type Service struct {
	repo     repository.SessionRepository
	validate *validator.Validate
}

func NewService(repo repository.SessionRepository) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())

	// "weathermetric" accepts exactly the metric names the observation store
	// knows about.
	_ = v.RegisterValidation("weathermetric", func(fl validator.FieldLevel) bool {
		_, err := obstypes.ParseMetric(fl.Field().String())
		return err == nil
	})

	return &Service{repo: repo, validate: v}
}

// Create mints a new session id and stores the given state. An empty blob
// starts the session with empty state.
func (s *Service) Create(state []byte) (string, error) {
	if len(state) == 0 {
		state = []byte("{}")
	}
	id := uuid.NewString()
	if err := s.Save(id, state); err != nil {
		return "", err
	}
	return id, nil
}

// Save validates the state blob and persists it under the session id.
func (s *Service) Save(sessionID string, state []byte) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", types.ErrInvalidState)
	}
	if err := s.validateState(state); err != nil {
		return err
	}
	return s.repo.Save(sessionID, state)
}

// Load returns the stored session, nil when unknown or expired.
func (s *Service) Load(sessionID string) (*types.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", types.ErrInvalidState)
	}
	return s.repo.Load(sessionID)
}

// Cleanup removes expired sessions and reports how many were deleted.
func (s *Service) Cleanup() (int, error) {
	return s.repo.Cleanup()
}

func (s *Service) validateState(state []byte) error {
	var ds types.DashboardState
	if err := json.Unmarshal(state, &ds); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidState, err)
	}
	if err := s.validate.Struct(ds); err != nil {
		return fmt.Errorf("%w: %v", types.ErrInvalidState, err)
	}
	return nil
}
