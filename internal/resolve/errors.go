package resolve

import (
	"errors"
	"fmt"
)

// MergeConflictError reports a merge precondition violation: a missing or
// already-merged participant, a self-merge, or a duplicate secondary. The
// merge is aborted with no partial state.
type MergeConflictError struct {
	CompanyID string
	Reason    string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge conflict: company %s: %s", e.CompanyID, e.Reason)
}

// IsMergeConflict reports whether err is (or wraps) a MergeConflictError.
func IsMergeConflict(err error) bool {
	var mce *MergeConflictError
	return errors.As(err, &mce)
}
