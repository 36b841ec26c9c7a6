package model

import "fmt"

// ConfigurationError reports parameters or inputs a run cannot start with.
type ConfigurationError struct {
	Reason string
}

func (err ConfigurationError) Error() string {
	return "invalid configuration: " + err.Reason
}

// LookupError reports a reference to an id absent from the model input.
type LookupError struct {
	Kind string
	Id   string
}

func (err LookupError) Error() string {
	return fmt.Sprintf("%v \"%v\" does not exist", err.Kind, err.Id)
}

// InputFormatError reports a structurally invalid input document.
type InputFormatError struct {
	Source string
	Err    error
}

func (err InputFormatError) Error() string {
	return fmt.Sprintf("cannot parse %v: %v", err.Source, err.Err)
}

func (err InputFormatError) Unwrap() error {
	return err.Err
}
