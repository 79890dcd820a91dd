package dto

// HealthResponse represents the response structure for health checks
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Details   any    `json:"details,omitempty"`
}
