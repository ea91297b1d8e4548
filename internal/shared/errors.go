package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Network and resolution errors
	ErrTransientNetwork = fmt.Errorf("transient network failure")
	ErrResolution       = fmt.Errorf("hostname resolution failed")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and catalog errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrNotFound       = fmt.Errorf("no matching data")
	ErrArtistNotFound = fmt.Errorf("artist not found")

	// Polling run gate errors
	ErrPermissionDenied   = fmt.Errorf("notification permission denied")
	ErrNetworkUnavailable = fmt.Errorf("configured network unavailable")

	// Matching outcomes
	ErrAmbiguousMatch = fmt.Errorf("cross-source match below threshold")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
