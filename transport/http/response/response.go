// Package response writes the JSON envelopes shared by every endpoint.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"unibook/shared/constant"
	"unibook/shared/failure"
	"unibook/shared/logger"
	"unibook/shared/timezone"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the body of every failed request.
type Error struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	TraceID   string `json:"trace_id"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError writes the error envelope. Only failure.Failure messages reach the client; anything else is
// logged with its stack and reported as an internal server error.
func WithError(writer http.ResponseWriter, request *http.Request, err error) {
	code := failure.GetCode(err)

	var known *failure.Failure
	message := constant.ResponseErrorInternal

	if errors.As(err, &known) {
		message = known.Message
	} else {
		logger.ErrorWithStack(err)
	}

	write(writer, code, Error{
		Timestamp: timezone.Format(timezone.Now(), constant.DateFormat),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   message,
		Path:      request.URL.Path,
		TraceID:   correlationID(request),
	})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

// correlationID prefers the active trace, then the request id, and mints one as a last resort.
func correlationID(request *http.Request) string {
	ctx := request.Context()

	if span := oteltrace.SpanContextFromContext(ctx); span.HasTraceID() {
		return span.TraceID().String()
	}

	if id := chiMiddleware.GetReqID(ctx); id != constant.Empty {
		return id
	}

	if id := request.Header.Get(constant.RequestHeaderRequestID); id != constant.Empty {
		return id
	}

	return uuid.NewString()
}

func write(writer http.ResponseWriter, code int, payload any) {
	var body bytes.Buffer

	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		logger.ErrorWithStack(err)
		http.Error(writer, constant.ResponseErrorInternal, http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err := body.WriteTo(writer); err != nil {
		logger.ErrorWithStack(err)
	}
}
