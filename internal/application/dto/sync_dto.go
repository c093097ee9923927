package dto

// ExportRequestedResponse confirmación de encolado de una exportación.
type ExportRequestedResponse struct {
	BackendID string `json:"backend_id"`
	JobID     string `json:"job_id"`
	Status    string `json:"status"` // queued | already_running
}
