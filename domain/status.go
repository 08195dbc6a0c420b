package domain

// AnalysisStatus is the persisted outcome of a job match analysis attempt.
// SUCCESS and FAILED_NON_RETRYABLE are terminal: a new analysis request
// against a match in one of these states must not re-invoke the model.
type AnalysisStatus int8

const (
	StatusFailedNonRetryable AnalysisStatus = -1
	StatusFailedRetryable    AnalysisStatus = 0
	StatusSuccess            AnalysisStatus = 1
)

func (s AnalysisStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailedRetryable:
		return "FAILED_RETRYABLE"
	case StatusFailedNonRetryable:
		return "FAILED_NON_RETRYABLE"
	}
	return "UNKNOWN"
}

// Terminal reports whether a fresh analysis request should be answered from
// the stored row instead of dispatching a new task.
func (s AnalysisStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailedNonRetryable
}
