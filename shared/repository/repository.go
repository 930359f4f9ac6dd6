package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/shared/constant"
	"unibook/shared/dto"
	"unibook/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type column struct {
	name  string
	table string
	alias string
}

// expr renders the column for a SELECT list.
func (c column) expr() string {
	if c.alias != constant.Empty {
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	}

	return fmt.Sprintf("%s.%s", c.table, c.name)
}

// key is the name callers use for the column: the alias of joined columns, the db tag otherwise.
func (c column) key() string {
	if c.alias != constant.Empty {
		return c.alias
	}

	return c.name
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type lockMode string

const (
	lockNone      lockMode = ""
	lockForUpdate lockMode = "FOR UPDATE"
)

// Repository maps the db-tagged fields of T onto one table. Fields tagged table:"x" column:"y" are read
// from a joined table (T.GetJoinQuery) and never written.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

type joiner interface {
	GetJoinQuery() string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := constant.Empty
	if j, ok := any(zero).(joiner); ok {
		join = j.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	ctx, scope := repo.scope(ctx, "InsertTx")
	defer scope.End()

	return repo.exec(ctx, scope, sqltx, "insert data", repo.insertStatement(), model)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "UpdateTx")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == constant.Empty {
		return errRequiredFilter
	}

	maps.Copy(args, mod)

	return repo.exec(ctx, scope, sqltx, "update data", repo.updateStatement(mod, where), args)
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, exec execer, action, statement string, arg any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, statement)

	if _, err := exec.NamedExecContext(ctx, statement, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	return repo.exist(ctx, scope, repo.db.Read, filter)
}

// ExistTx checks existence against the transaction's snapshot, seeing its uncommitted writes.
func (repo *Repository[T]) ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "ExistTx")
	defer scope.End()

	return repo.exist(ctx, scope, sqltx, filter)
}

func (repo *Repository[T]) exist(ctx context.Context, scope otel.Scope, query queryer, filter dto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(ctx, filter)
	if where == constant.Empty {
		return false, errRequiredFilter
	}

	exist := false
	statement := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)

	if err := repo.getNamed(ctx, scope, query, statement, &exist, args); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero value when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	return repo.get(ctx, scope, repo.db.Read, lockNone, filter, columns...)
}

func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "GetTx")
	defer scope.End()

	return repo.get(ctx, scope, sqltx, lockNone, filter, columns...)
}

// GetForUpdateTx reads the matching row and holds its row lock until the transaction ends.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "GetForUpdateTx")
	defer scope.End()

	return repo.get(ctx, scope, sqltx, lockForUpdate, filter, columns...)
}

func (repo *Repository[T]) get(ctx context.Context, scope otel.Scope, query queryer, lock lockMode, filter dto.FilterGroup, columns ...string) (T, error) {
	var model T

	where, args := repo.BuildWhereClause(ctx, filter)
	statement := repo.selectStatement(columns, where, lock, constant.Empty)

	err := repo.getNamed(ctx, scope, query, statement, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	tail := repo.orderAndPage(params, args)
	statement := repo.selectStatement(columns, where, lockNone, tail)

	scope.SetAttribute(constant.OtelQueryAttributeKey, statement)

	var models []T

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, statement)
	if err != nil {
		return models, repo.fail(scope, "prepare statement", err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	statement := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	var count int

	if err := repo.getNamed(ctx, scope, repo.db.Read, statement, &count, args); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) getNamed(ctx context.Context, scope otel.Scope, query queryer, statement string, dest any, args map[string]any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, statement)

	prepare, err := query.PrepareNamedContext(ctx, statement)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer prepare.Close()

	return prepare.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == constant.Empty {
		return where, map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

func (repo *Repository[T]) insertStatement() string {
	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
}

// updateStatement sets the columns of mod in name order so equal updates render equal SQL.
func (repo *Repository[T]) updateStatement(mod map[string]any, where string) string {
	names := slices.Sorted(maps.Keys(mod))

	assignments := make([]string, len(names))
	for i, name := range names {
		assignments[i] = fmt.Sprintf("%s = :%s", name, name)
	}

	return fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
}

func (repo *Repository[T]) selectStatement(only []string, where string, lock lockMode, tail string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.key()) {
			continue
		}

		selected = append(selected, col.expr())
	}

	statement := fmt.Sprintf("SELECT %s FROM %s %s %s %s", strings.Join(selected, ", "), repo.table, repo.join, where, tail)

	if lock != lockNone {
		statement += fmt.Sprintf(" %s OF %s", lock, repo.table)
	}

	return statement
}

// orderAndPage renders ORDER BY and LIMIT/OFFSET for params and adds the paging arguments to args.
func (repo *Repository[T]) orderAndPage(params dto.QueryParams, args map[string]any) string {
	parts := []string{}

	if sortColumn := repo.sortColumn(params.SortBy); sortColumn != constant.Empty && params.SortDir != constant.Empty {
		parts = append(parts, fmt.Sprintf("ORDER BY %s %s", sortColumn, params.SortDir))
	}

	switch {
	case params.Page > 0 && params.Limit > 0:
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit

		parts = append(parts, "LIMIT :limit OFFSET :offset")
	case params.Limit > 0:
		args["limit"] = params.Limit

		parts = append(parts, "LIMIT :limit")
	}

	return strings.Join(parts, " ")
}

// sortColumn resolves a requested sort key to a qualified column of the entity, or "" when unknown.
func (repo *Repository[T]) sortColumn(sortBy string) string {
	for _, col := range repo.columns {
		if col.key() == sortBy {
			return fmt.Sprintf("%s.%s", col.table, col.name)
		}
	}

	return constant.Empty
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := getColumns(table, field.Type)
			columns = append(columns, nested...)
			insertColumns = append(insertColumns, nestedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == constant.Empty || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == constant.Empty || source == table {
			columns = append(columns, column{name: dbTag, table: table})
			insertColumns = append(insertColumns, dbTag)

			continue
		}

		name := field.Tag.Get("column")
		if name == constant.Empty {
			name = dbTag
		}

		columns = append(columns, column{name: name, table: source, alias: dbTag})
	}

	return columns, insertColumns
}
