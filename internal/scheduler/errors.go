package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToUndo = errors.New("scheduler: nothing to undo")
	ErrNothingToRedo = errors.New("scheduler: nothing to redo")

	ErrPastSchedule    = errors.New("scheduled time must be in the future")
	ErrInvalidPhone    = errors.New("invalid phone number format")
	ErrInvalidPriority = errors.New("priority must be between 1 and 10")
	ErrUnknownKind     = errors.New("unknown call type")
)

// ScheduleError rejects a call before anything is persisted.
type ScheduleError struct {
	Field string
	Err   error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("scheduler: invalid %s: %v", e.Field, e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }

// IsEmptyLog reports whether err is the non-fatal "nothing to undo/redo" signal.
func IsEmptyLog(err error) bool {
	return errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo)
}
