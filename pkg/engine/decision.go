package engine

// Decision is the terminal outcome of one authentication attempt. It is
// consumed immediately by the host adapter and never persisted.
type Decision int

const (
	// DecisionSuccess accepts the attempt.
	DecisionSuccess Decision = iota

	// DecisionRejected denies the attempt. The caller never learns why
	// beyond a generic failure; the operator log records the cause.
	DecisionRejected

	// DecisionIgnored defers to the host's next authentication mechanism
	// (unconfigured gate, excluded user).
	DecisionIgnored

	// DecisionServiceError means a collaborator misbehaved unexpectedly.
	// The host maps it to a rejection; it must never read as success.
	DecisionServiceError
)

func (d Decision) String() string {
	switch d {
	case DecisionSuccess:
		return "success"
	case DecisionRejected:
		return "rejected"
	case DecisionIgnored:
		return "ignored"
	case DecisionServiceError:
		return "service_error"
	default:
		return "unknown"
	}
}
