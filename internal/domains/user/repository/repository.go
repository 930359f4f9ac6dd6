package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/internal/domains/user/model"
	"unibook/shared"
	gRepo "unibook/shared/repository"

	"github.com/jmoiron/sqlx"
)

// User looks up accounts. Accounts are provisioned by the identity provider, never written here.
type User interface {
	// GetByIDTx returns the zero User when id is unknown.
	GetByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (model.User, error)
}

type repositoryImpl struct {
	base gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		base: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

func (r *repositoryImpl) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id string) (model.User, error) {
	return r.base.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
}
