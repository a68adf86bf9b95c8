package domain

// StatusKind tags the variant held by a Status
type StatusKind string

const (
	StatusIdle      StatusKind = "idle"
	StatusPending   StatusKind = "pending"
	StatusSucceeded StatusKind = "succeeded"
	StatusFailed    StatusKind = "failed"
)

// User facing messages shared by the resolve and submit flows
const (
	MsgInvalidOrExpired = "Invalid or expired URL"
	MsgGenericError     = "An error occurred"
	MsgShortened        = "URL shortened successfully!"
	MsgCopied           = "Copied to clipboard!"
)

// Status is the transient feedback shown to the user as a banner
// It is a value type; transitions build a new Status instead of mutating one
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

// Idle is the status before any operation and after dismissal
func Idle() Status {
	return Status{Kind: StatusIdle}
}

// Pending marks an operation in flight
func Pending() Status {
	return Status{Kind: StatusPending}
}

// Succeeded finishes an operation with a success message
func Succeeded(message string) Status {
	return Status{Kind: StatusSucceeded, Message: message}
}

// Failed finishes an operation with an error message
func Failed(message string) Status {
	return Status{Kind: StatusFailed, Message: message}
}

// IsZero reports whether the status was never set
func (s Status) IsZero() bool {
	return s.Kind == ""
}

// IsPending reports whether an operation is in flight
func (s Status) IsPending() bool {
	return s.Kind == StatusPending
}

// IsError reports whether the banner should use error severity
func (s Status) IsError() bool {
	return s.Kind == StatusFailed
}

// Visible reports whether a banner should be shown for this status
func (s Status) Visible() bool {
	return (s.Kind == StatusSucceeded || s.Kind == StatusFailed) && s.Message != ""
}

// Normalize maps the zero value to Idle
func (s Status) Normalize() Status {
	if s.IsZero() {
		return Idle()
	}
	return s
}
