package contract

import "errors"

var (
	ErrSerialization      = errors.New("result is not serializable")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrAgentInvocation    = errors.New("agent invocation failed")
	ErrAgentTimeout       = errors.New("agent invocation timed out")
	ErrNoAgentsConfigured = errors.New("no agents configured")
	ErrValidation         = errors.New("validation failed")
	ErrModelInvoke        = errors.New("model invoke failed")
)
