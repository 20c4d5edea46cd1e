package checkout

const (
	// -----------------------------
	// CONSTRUCTION
	// -----------------------------
	ErrEnvironmentMismatch = "checkout_sandbox_production_mismatch"

	// -----------------------------
	// REMOTE URL GENERATION
	// -----------------------------
	ErrURLRejected       = "checkout_url_rejected"
	ErrMalformedResponse = "checkout_malformed_response"
	ErrTransport         = "checkout_transport_failure"
)
