package scoring

import (
	"errors"
	"fmt"
)

// Contract violations of the entity list handed to the modeler.
var (
	ErrTargetNotFound  = errors.New("target entity not found")
	ErrMultipleTargets = errors.New("more than one target entity")
	ErrNoCompetitors   = errors.New("no competitor entities")
)

// ContractError wraps a contract violation with the list size it was detected on.
type ContractError struct {
	Entities int
	Err      error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("modeling contract violation (%d entities): %v", e.Entities, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

func violation(n int, err error) error {
	return &ContractError{Entities: n, Err: err}
}
