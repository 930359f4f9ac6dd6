package mocks

import (
	"context"

	"unibook/infras/postgres"

	"github.com/jmoiron/sqlx"
)

type passthroughTransactor struct{}

// NewTransactor returns a Transactor that runs the unit of work directly with a nil transaction.
// Repository mocks ignore the transaction argument, so service tests exercise the same code path.
func NewTransactor() postgres.Transactor {
	return passthroughTransactor{}
}

func (passthroughTransactor) WithTransaction(_ context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}
