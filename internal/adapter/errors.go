package adapter

import "errors"

var (
	ErrUnauthorized    = errors.New("store credential rejected")
	ErrDocumentAbsent  = errors.New("document absent")
	ErrVersionConflict = errors.New("version conflict")
)
