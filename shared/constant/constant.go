package constant

import "time"

type contextKey string

// Principal fields carried on the request context.
const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
)

// Query and path parameters.
const (
	RequestParamID        = "id"
	RequestParamRoomID    = "room_id"
	RequestParamUserID    = "user_id"
	RequestParamStatus    = "status"
	RequestParamStartTime = "start_time"
	RequestParamEndTime   = "end_time"
	RequestParamStartDate = "start_date"
	RequestParamEndDate   = "end_date"

	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"

	DefaultValuePage  = 1
	DefaultValueLimit = 10
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderRequestID          = "X-Request-ID"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderRetryAfter         = "Retry-After"

	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
)

// Audit columns stamped on every update.
const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

const (
	DateFormat    = time.RFC3339
	DayFormat     = time.DateOnly
	CSVTimeFormat = time.RFC3339
)

// Tracing scope names and attribute keys.
const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelS3ScopeName         = "s3"

	OtelQueryAttributeKey = "query"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
	ResponseErrorInternal             = "internal server error"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)
