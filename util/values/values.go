package values

type contextKey string

const ContextTracingKey contextKey = "tracing"

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

// Response statuses. util.StatusCode maps them to HTTP codes.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	Failed         = "failed"
	SystemErr      = "system_error"
	BadRequestBody = "bad_request_body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not_allowed"
	Conflict       = "conflict"
	NotFound       = "not_found"
)
