package jobs

import "errors"

var (
	ErrNotFound       = errors.New("job not found")
	ErrJobClosed      = errors.New("job is not open for applications")
	ErrNotReady       = errors.New("candidate is not ready to apply")
	ErrAlreadyApplied = errors.New("candidate already applied to this job")
)
