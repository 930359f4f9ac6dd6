package mocks

import (
	"context"

	"unibook/infras/otel"
)

// NewOtel returns a tracer that opens no spans. Scopes still record the errors traced on them.
func NewOtel() otel.Otel {
	return noopOtel{}
}

type noopOtel struct{}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, &Scope{}
}

func (noopOtel) Shutdown(context.Context) error {
	return nil
}

// Scope discards attributes and events and keeps traced errors.
type Scope struct {
	Errors []error
}

func (s *Scope) End() {}

func (s *Scope) TraceError(err error) {
	s.Errors = append(s.Errors, err)
}

func (s *Scope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *Scope) AddEvent(string) {}

func (s *Scope) SetAttribute(string, any) {}

func (s *Scope) SetAttributes(map[string]any) {}
