package calls

import (
	"context"
	"errors"
	"fmt"
)

// Repository is the durable store the scheduler depends on.
//
// Listing order is unspecified; callers sort wherever order matters.
// Implementations do not validate calls; the scheduler validates before Create.
// Every failure is returned as a *StorageError.
type Repository interface {
	Create(ctx context.Context, c Call) (int64, error)
	ListAll(ctx context.Context) ([]Call, error)
	ListByPhone(ctx context.Context, phone string) ([]Call, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}

var ErrNotFound = errors.New("calls: not found")

// StorageError reports a failed store operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("calls: storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a *StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
