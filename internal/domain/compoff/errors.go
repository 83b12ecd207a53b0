package compoff

import "errors"

var (
	ErrCompOffNotFound = errors.New("comp-off entry not found")
)
