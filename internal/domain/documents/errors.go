package documents

import "errors"

var (
	ErrNotFound          = errors.New("document not found")
	ErrInvalidTransition = errors.New("document status does not allow this action")
)
