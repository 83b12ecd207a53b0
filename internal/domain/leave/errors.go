package leave

import "errors"

var (
	ErrNothingToSave   = errors.New("nothing to save")
	ErrRecordNotInView = errors.New("record is not a leave record of this employee in the period")
)
