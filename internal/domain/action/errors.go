package action

import "errors"

var (
	ErrUnknownKind  = errors.New("unknown action type")
	ErrMissingField = errors.New("missing action field")
)
