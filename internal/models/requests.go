package models

import "time"

// DefaultTenantID labels simulations whose caller did not name a tenant.
const DefaultTenantID = "unknown"

// SimulateRequest represents one inbound simulate-workload call.
type SimulateRequest struct {
	TenantID string
}

// SimulateResponse is the caller-facing summary of a simulation.
type SimulateResponse struct {
	Success    bool          `json:"success"`
	RequestID  string        `json:"request_id,omitempty"`
	Tier       TrafficTier   `json:"tier,omitempty"`
	Category   SpeedCategory `json:"category,omitempty"`
	DurationMS int64         `json:"duration_ms"`
}

// TrafficReport describes the current tier and how many requests a load client should issue.
type TrafficReport struct {
	Tier     TrafficTier `json:"tier"`
	Requests int         `json:"requests"`
	At       time.Time   `json:"at"`
}

// NewSimulateResponse summarises an outcome for transport.
func NewSimulateResponse(outcome SimulationOutcome) SimulateResponse {
	return SimulateResponse{
		Success:    outcome.Succeeded,
		RequestID:  outcome.RequestID,
		Tier:       outcome.Tier,
		Category:   outcome.Category,
		DurationMS: outcome.Duration.Milliseconds(),
	}
}
