package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrTooManyRequests     = "Too many requests, try again later"
	ErrInternalServerError = "Internal server error"
	ErrServiceNotReady     = "Service is starting up"
)

const (
	RequestIDHeader     = "X-Request-ID"
	maxRequestBodyBytes = 1 << 20
	oauthStateCookie    = "oauth_state"
)
