package attendance

import "errors"

var (
	// ErrInvalidInput is returned before any fetch when the employee id or
	// the month/year pair is unusable.
	ErrInvalidInput = errors.New("invalid aggregation input")
	// ErrWorkLogUnavailable means the primary work-log fetch failed and no
	// attendance could be computed for the employee.
	ErrWorkLogUnavailable = errors.New("unable to compute attendance for this employee")
	// ErrRosterUnavailable means the employee list for a batch could not be resolved.
	ErrRosterUnavailable = errors.New("unable to resolve employee roster")
)
