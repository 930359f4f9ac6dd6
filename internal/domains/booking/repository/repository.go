package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/internal/domains/booking/model"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
	gRepo "unibook/shared/repository"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const lockRoomTimelineQuery = "SELECT pg_advisory_xact_lock(hashtext(:lock_key))"

// Booking is the calendar store. Methods ending in Tx run on the caller's transaction and see its
// uncommitted writes.
type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) error
	// HasOverlapTx reports whether an active booking of roomID other than excludeID overlaps slot.
	HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, slot model.Slot, excludeID string) (bool, error)
	// HasOverlap is HasOverlapTx against committed state, for read-only availability checks.
	HasOverlap(ctx context.Context, roomID string, slot model.Slot, excludeID string) (bool, error)
	// FindOverlapping lists the active bookings of roomID overlapping slot, by start time.
	FindOverlapping(ctx context.Context, roomID string, slot model.Slot) ([]model.Booking, error)
	// LockRoomTimelineTx serializes conflict checks for one room until the transaction ends.
	LockRoomTimelineTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (repo *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return mapConstraintError(repo.Repository.InsertTx(ctx, sqltx, booking))
}

func (repo *repositoryImpl) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return mapConstraintError(repo.Repository.UpdateTx(ctx, sqltx, mod, filter))
}

func (repo *repositoryImpl) HasOverlapTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, slot model.Slot, excludeID string) (exist bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlapTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err = repo.ExistTx(ctx, sqltx, model.OverlapFilter(roomID, slot, excludeID))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check overlapping bookings")

		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	return exist, nil
}

func (repo *repositoryImpl) HasOverlap(ctx context.Context, roomID string, slot model.Slot, excludeID string) (exist bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlap")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err = repo.Exist(ctx, model.OverlapFilter(roomID, slot, excludeID))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to check overlapping bookings")

		return false, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}

	return exist, nil
}

func (repo *repositoryImpl) FindOverlapping(ctx context.Context, roomID string, slot model.Slot) (res []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: gDto.SortDirAsc}

	res, err = repo.GetAll(ctx, params, model.OverlapFilter(roomID, slot, constant.Empty))
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to find overlapping bookings")

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) LockRoomTimelineTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockRoomTimelineTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockRoomTimelineQuery)

	if _, err = sqltx.NamedExecContext(ctx, lockRoomTimelineQuery, map[string]any{"lock_key": lockKey(roomID)}); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to lock room timeline")

		return fmt.Errorf("failed to lock room timeline: %w", err)
	}

	return nil
}

func lockKey(roomID string) string {
	return model.TableName + ":" + roomID
}

// mapConstraintError turns integrity violations raised by the database into client failures.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	switch postgres.ErrorCode(err) {
	case pgerrcode.ExclusionViolation:
		return failure.Conflict("room is not available for the specified time period") //nolint:wrapcheck
	case pgerrcode.ForeignKeyViolation:
		return failure.NotFound("room or user not found") //nolint:wrapcheck
	case pgerrcode.CheckViolation:
		return failure.InvalidDate("end time must be after start time") //nolint:wrapcheck
	}

	return err
}
