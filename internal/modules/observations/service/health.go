package service

import "time"

type HealthStatus struct {
	Status            string     `json:"status"`
	Timestamp         time.Time  `json:"timestamp"`
	DatabaseConnected bool       `json:"database_connected"`
	RegionsCount      int        `json:"regions_count"`
	TotalRecords      int        `json:"total_records"`
	LastUpdate        *time.Time `json:"last_update"`
}

// Health reports a status snapshot. A storage failure yields an unhealthy
// status rather than an error; health checks should always answer.
func (s *Service) Health() HealthStatus {
	status := HealthStatus{
		Timestamp:    s.now().UTC(),
		RegionsCount: s.registry.Len(),
	}

	total, last, err := s.repo.Status()
	if err != nil {
		status.Status = "unhealthy"
		return status
	}

	status.Status = "healthy"
	status.DatabaseConnected = true
	status.TotalRecords = total
	status.LastUpdate = last
	return status
}
