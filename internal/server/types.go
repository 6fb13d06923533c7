package server

import "github.com/MeKo-Tech/critex/internal/extract"

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// UploadResponse acknowledges an accepted document.
type UploadResponse struct {
	JobID  string         `json:"job_id"`
	Status extract.Status `json:"status"`
}

// JobsResponse lists known jobs.
type JobsResponse struct {
	Jobs  []extract.Job `json:"jobs"`
	Count int           `json:"count"`
}

// ErrorResponse carries a failed request's cause.
type ErrorResponse struct {
	Error string `json:"error"`
}
