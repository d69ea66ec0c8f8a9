package sched

import "fmt"

// SourceFaultError wraps a panic raised by TempoSource.Tempo. There is no safe
// tempo to fall back to, so a source fault ends the loop.
type SourceFaultError struct {
	Value any
	Stack []byte
}

func (e *SourceFaultError) Error() string {
	return fmt.Sprintf("tempo source fault: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *SourceFaultError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
