package wire

// Observation is a single observation frame returned by the service.
type Observation struct {
	Data     []float64         `json:"data"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// InfoResponse answers the liveness probe and lists what the service offers.
type InfoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Scenarios []string          `json:"scenarios"`
	EnvIDs    []string          `json:"env_ids,omitempty"`
	Info      map[string]string `json:"info,omitempty"`
}

// SpacesRequest queries space descriptors by scenario name or by a live
// environment id. Scenario takes precedence when both are set.
type SpacesRequest struct {
	Scenario string `json:"scenario,omitempty"`
	EnvID    string `json:"env_id,omitempty"`
}

type SpacesResponse struct {
	ActionSpace      *SpaceDescriptor `json:"action_space"`
	ObservationSpace *SpaceDescriptor `json:"observation_space"`
}

type CreateRequest struct {
	EnvID    string            `json:"env_id"`
	Scenario string            `json:"scenario"`
	Config   map[string]string `json:"config,omitempty"`
}

type CreateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type ResetRequest struct {
	EnvID string `json:"env_id"`
}

type ResetResponse struct {
	Observations []Observation     `json:"observations"`
	Info         map[string]string `json:"info,omitempty"`
}

type StepRequest struct {
	EnvID string `json:"env_id"`
	// position maps to agent/slot index on the service side
	Actions []Action `json:"actions"`
}

type StepResponse struct {
	Observations []Observation     `json:"observations"`
	Rewards      []float64         `json:"rewards,omitempty"`
	Done         []bool            `json:"done,omitempty"`
	Info         map[string]string `json:"info,omitempty"`
}

type CloseRequest struct {
	EnvID string `json:"env_id"`
}

type CloseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
