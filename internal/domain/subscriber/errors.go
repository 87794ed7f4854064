package subscriber

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrInvalidStatus      = errors.New("invalid subscriber status")
	ErrInvalidKind        = errors.New("invalid subscriber kind")
	ErrInvalidDocument    = errors.New("invalid CPF/CNPJ")
	ErrCompanyRequired    = errors.New("corporate subscriber requires a company")
	ErrNameRequired       = errors.New("subscriber name is required")
	ErrDocumentExists     = errors.New("subscriber document already registered")
	ErrVersionConflict    = errors.New("subscriber was modified concurrently")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatus, from, to)
}
