// Package utils provides the error types shared by the crossroads packages
package utils

import (
	"fmt"
	"sort"
	"strings"
)

// SimulationError represents a crossroads specific error
type SimulationError struct {
	Code      string
	Message   string
	Component string
	Field     string
	Cause     error
	Details   map[string]interface{}
}

// Error implements the error interface
func (e *SimulationError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("component: %s", e.Component))
	}

	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field: %s", e.Field))
	}

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		details := make([]string, 0, len(keys))
		for _, k := range keys {
			details = append(details, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		parts = append(parts, fmt.Sprintf("details: {%s}", strings.Join(details, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " - ")
}

// Unwrap returns the underlying cause
func (e *SimulationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same error code.
// Sentinels are matched by code so enriched copies still satisfy errors.Is.
func (e *SimulationError) Is(target error) bool {
	t, ok := target.(*SimulationError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithComponent adds component information to the error
func (e *SimulationError) WithComponent(component string) *SimulationError {
	e.Component = component
	return e
}

// WithField adds the offending field to the error
func (e *SimulationError) WithField(field string) *SimulationError {
	e.Field = field
	return e
}

// WithCause adds cause information to the error
func (e *SimulationError) WithCause(err error) *SimulationError {
	e.Cause = err
	return e
}

// WithDetail adds a detail to the error
func (e *SimulationError) WithDetail(key string, value interface{}) *SimulationError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Error codes
const (
	CodeUnknownKind            = "UNKNOWN_KIND"
	CodeConflictingTurnIntent  = "CONFLICTING_TURN_INTENT"
	CodeInvalidDirection       = "INVALID_DIRECTION"
	CodeInvalidGeometry        = "INVALID_GEOMETRY"
	CodeInvalidTiming          = "INVALID_TIMING"
	CodeInvalidConfiguration   = "CONFIGURATION_ERROR"
	CodeClockRunning           = "CLOCK_RUNNING"
	CodeSimulationMisconfigure = "SIMULATION_MISCONFIGURED"
)

// Core error values, matched with errors.Is
var (
	// ErrUnknownKind is returned when an agent kind has no geometry entry
	ErrUnknownKind = &SimulationError{
		Code:    CodeUnknownKind,
		Message: "agent kind has no geometry entry",
	}

	// ErrConflictingTurnIntent is returned when both turn flags are set
	ErrConflictingTurnIntent = &SimulationError{
		Code:    CodeConflictingTurnIntent,
		Message: "agent cannot turn both left and right",
	}

	// ErrInvalidDirection is returned for a spawn direction outside 0..3
	ErrInvalidDirection = &SimulationError{
		Code:    CodeInvalidDirection,
		Message: "spawn direction out of range",
	}

	// ErrInvalidGeometry is returned when the layout table is malformed
	ErrInvalidGeometry = &SimulationError{
		Code:    CodeInvalidGeometry,
		Message: "invalid geometry",
	}

	// ErrInvalidTiming is returned when a phase duration is not positive
	ErrInvalidTiming = &SimulationError{
		Code:    CodeInvalidTiming,
		Message: "invalid phase timing",
	}

	// ErrClockRunning is returned when a phase clock is started twice
	ErrClockRunning = &SimulationError{
		Code:    CodeClockRunning,
		Message: "phase clock is already running",
	}

	// ErrSimulationMisconfigured is returned when a simulation is built without its collaborators
	ErrSimulationMisconfigured = &SimulationError{
		Code:    CodeSimulationMisconfigure,
		Message: "simulation is missing a collaborator",
	}
)

func newCoded(code, message string) *SimulationError {
	return &SimulationError{
		Code:    code,
		Message: message,
	}
}

// NewUnknownKindError creates an error for a kind missing from the geometry table
func NewUnknownKindError(kind string) *SimulationError {
	return newCoded(CodeUnknownKind, fmt.Sprintf("agent kind %q has no geometry entry", kind)).
		WithDetail("kind", kind)
}

// NewConflictingTurnError creates an error for an agent built with both turn flags
func NewConflictingTurnError(kind string) *SimulationError {
	return newCoded(CodeConflictingTurnIntent, "agent cannot turn both left and right").
		WithDetail("kind", kind)
}

// NewInvalidDirectionError creates an error for a spawn direction outside 0..3
func NewInvalidDirectionError(direction int) *SimulationError {
	return newCoded(CodeInvalidDirection, fmt.Sprintf("spawn direction %d out of range 0..3", direction)).
		WithDetail("direction", direction)
}

// NewGeometryError creates an error for a malformed geometry entry
func NewGeometryError(message string, component string, field string) *SimulationError {
	return newCoded(CodeInvalidGeometry, message).
		WithComponent(component).
		WithField(field)
}

// NewTimingError creates an error for a malformed phase duration
func NewTimingError(message string, phase string) *SimulationError {
	return newCoded(CodeInvalidTiming, message).
		WithComponent("signal").
		WithField(phase)
}

// NewConfigurationError creates an error for configuration issues
func NewConfigurationError(message string) *SimulationError {
	return newCoded(CodeInvalidConfiguration, message)
}

// NewMisconfiguredError creates an error for a simulation built without a collaborator
func NewMisconfiguredError(field string) *SimulationError {
	return newCoded(CodeSimulationMisconfigure, "simulation is missing a collaborator").
		WithComponent("sim").
		WithField(field)
}

// IsConfigurationError reports whether err is a construction-time configuration defect
func IsConfigurationError(err error) bool {
	switch GetErrorCode(err) {
	case CodeUnknownKind, CodeConflictingTurnIntent, CodeInvalidDirection,
		CodeInvalidGeometry, CodeInvalidTiming, CodeInvalidConfiguration:
		return true
	}
	if ec, ok := err.(*ErrorCollector); ok && ec.HasErrors() {
		for _, e := range ec.GetErrors() {
			if !IsConfigurationError(e) {
				return false
			}
		}
		return true
	}
	return false
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) string {
	if e, ok := err.(*SimulationError); ok {
		return e.Code
	}
	return ""
}

// ErrorCollector collects multiple errors during validation
type ErrorCollector struct {
	errors []error
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]error, 0),
	}
}

// Add adds an error to the collector
func (ec *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	if nested, ok := err.(*ErrorCollector); ok {
		ec.errors = append(ec.errors, nested.errors...)
		return
	}
	ec.errors = append(ec.errors, err)
}

// HasErrors returns whether any errors were collected
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// GetErrors returns all collected errors
func (ec *ErrorCollector) GetErrors() []error {
	return ec.errors
}

// Err returns nil when nothing was collected, the collector otherwise
func (ec *ErrorCollector) Err() error {
	if !ec.HasErrors() {
		return nil
	}
	return ec
}

// Is reports whether any collected error matches target
func (ec *ErrorCollector) Is(target error) bool {
	for _, err := range ec.errors {
		if e, ok := err.(*SimulationError); ok && e.Is(target) {
			return true
		}
	}
	return false
}

// Error returns a string representation of all errors
func (ec *ErrorCollector) Error() string {
	if len(ec.errors) == 0 {
		return "no errors"
	}

	if len(ec.errors) == 1 {
		return ec.errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(ec.errors)))

	for i, err := range ec.errors {
		sb.WriteString(fmt.Sprintf("  %d: %v\n", i+1, err))
	}

	return sb.String()
}
