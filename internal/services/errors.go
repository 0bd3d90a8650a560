package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for rejected operations. These are checked before any write
// begins, so a caller receiving one knows nothing was modified.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrRequestNotFound    = errors.New("pending request not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrInvalidReference   = errors.New("profile ids are not a subset of the owner's profiles")
)

// PartialWriteError reports a failure in the middle of a multi-record write
// sequence. There is no cross-document transaction, so the steps listed in
// Completed have been applied and were not rolled back; the mirror invariant
// between the two parties' documents may be violated until the operation is
// retried or a reconciliation sweep runs.
type PartialWriteError struct {
	Op        string
	Completed []string
	Failed    string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: step %q failed after [%s]: %v",
		e.Op, e.Failed, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
