package dto

// Dispatch run statuses.
const (
	DispatchStatusOK   = "ok"
	DispatchStatusBusy = "busy"
)

// DispatchResult is the outcome of one dispatcher run. Errors is never nil so
// it always encodes as a JSON array.
type DispatchResult struct {
	Status    string   `json:"status"`
	SentCount int      `json:"sent_count"`
	Errors    []string `json:"errors"`
	RunID     string   `json:"run_id,omitempty"`
}

// NewDispatchResult returns an empty result with the given status.
func NewDispatchResult(status string) DispatchResult {
	return DispatchResult{Status: status, Errors: []string{}}
}
