package entity

// MessageResponse is the bare success envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse wraps a single payload.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// HealthResponse reports server and database state.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}
