package scheduling

import "fmt"

// ErrCode classifies a scheduling-layer error for logging/metrics.
type ErrCode string

const (
	ErrCodeMissingCampaignType ErrCode = "missing_campaign_type"
	ErrCodeBadTriggerDate      ErrCode = "bad_trigger_date"
	ErrCodeStorage             ErrCode = "storage"
)

// SchedulingError is a typed, classified error raised by the pipelines.
// Recoverable errors (IsFatal false) are logged and the offending row
// or instance is skipped; the run continues.
type SchedulingError struct {
	Code    ErrCode
	Message string
	IsFatal bool
	Err     error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

func NewSchedulingError(code ErrCode, message string, fatal bool, err error) *SchedulingError {
	return &SchedulingError{Code: code, Message: message, IsFatal: fatal, Err: err}
}
