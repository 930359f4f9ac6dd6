package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"unibook/config"
	"unibook/infras/otel"
	"unibook/infras/postgres"
	"unibook/internal/domains/booking/model"
	"unibook/internal/domains/booking/model/dto"
	"unibook/internal/domains/booking/repository"
	historyModel "unibook/internal/domains/history/model"
	historyDto "unibook/internal/domains/history/model/dto"
	historyService "unibook/internal/domains/history/service"
	roomModel "unibook/internal/domains/room/model"
	roomRepo "unibook/internal/domains/room/repository"
	userModel "unibook/internal/domains/user/model"
	userRepo "unibook/internal/domains/user/repository"
	"unibook/shared"
	"unibook/shared/cache"
	"unibook/shared/clock"
	"unibook/shared/constant"
	gDto "unibook/shared/dto"
	"unibook/shared/failure"
	"unibook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	reasonCreated          = "Booking created"
	reasonUpdated          = "Booking updated"
	reasonApproved         = "Booking approved by admin"
	reasonRejectedPrefix   = "Booking rejected: "
	reasonCancelledByAdmin = "cancelled by admin"
	reasonCancelledByUser  = "cancelled by user"
)

// Booking is the lifecycle engine. Every write runs in one transaction and appends exactly one
// history entry.
type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, requesterID string) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest, requesterID string) (dto.BookingResponse, error)
	Approve(ctx context.Context, id, adminID string) (dto.BookingResponse, error)
	Reject(ctx context.Context, id, adminID, reason string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id, userID string, isAdmin bool) (dto.BookingResponse, error)
	// IsRoomAvailable is false for a missing or inactive room.
	IsRoomAvailable(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	GetHistory(ctx context.Context, id string) (dto.HistoryResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	RoomSchedule(ctx context.Context, roomID string, start, end time.Time) (dto.RoomScheduleResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	userRepo   userRepo.User
	roomRepo   roomRepo.Room
	ledger     historyService.Ledger
	validator  Validator
	detector   ConflictDetector
	transactor postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	clock      clock.Clock
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	userRepo userRepo.User,
	roomRepo roomRepo.Room,
	ledger historyService.Ledger,
	validator Validator,
	detector ConflictDetector,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	clock clock.Clock,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		userRepo:   userRepo,
		roomRepo:   roomRepo,
		ledger:     ledger,
		validator:  validator,
		detector:   detector,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		clock:      clock,
		otel:       otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, requesterID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	slot, err := req.Slot()
	if err != nil {
		return res, err
	}

	if err = s.validator.ValidateDates(slot.Start, slot.End); err != nil {
		return res, err //nolint:wrapcheck
	}

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.ensureRoomFree(ctx, tx, req.RoomID, slot, constant.Empty, "room is not available for the specified time period"); err != nil {
			return err
		}

		if err := s.validator.ValidateHolidays(ctx, slot.Start, slot.End); err != nil {
			return err //nolint:wrapcheck
		}

		user, err := s.loadUser(ctx, tx, requesterID, "user not found")
		if err != nil {
			return err
		}

		room, err := s.roomRepo.GetTx(ctx, tx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get room")

			return fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") //nolint:wrapcheck
		}

		if !room.IsBookable() {
			return failure.InvalidState("room is not active") //nolint:wrapcheck
		}

		booking = req.ToModel(user.ID, slot, s.clock.Now())
		booking.RoomName = room.Name
		booking.UserName = user.Name

		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		return s.record(ctx, tx, booking.ID, user.ID, historyModel.ActionCreated, reasonCreated)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest, requesterID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	slot, err := req.Slot()
	if err != nil {
		return res, err
	}

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err = s.loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !booking.IsOwnedBy(requesterID) {
			return failure.Forbidden("user can only update their own bookings") //nolint:wrapcheck
		}

		if !booking.Status.IsMutable() {
			return failure.Forbidden("only pending bookings can be updated") //nolint:wrapcheck
		}

		if err := s.validator.ValidateDates(slot.Start, slot.End); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.ensureRoomFree(ctx, tx, booking.RoomID, slot, booking.ID, "room is not available for the specified time period"); err != nil {
			return err
		}

		if err := s.validator.ValidateHolidays(ctx, slot.Start, slot.End); err != nil {
			return err //nolint:wrapcheck
		}

		now := s.clock.Now()
		schedule := model.Schedule{StartTime: slot.Start, EndTime: slot.End, Purpose: strings.TrimSpace(req.Purpose)}

		filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)
		if err := s.repo.UpdateTx(ctx, tx, shared.ChangedColumns(schedule, requesterID, now), filter); err != nil {
			log.Error().Err(err).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", err)
		}

		booking.StartTime = schedule.StartTime
		booking.EndTime = schedule.EndTime
		booking.Purpose = schedule.Purpose
		booking.ModifiedAt = now
		booking.ModifiedBy = requesterID

		return s.record(ctx, tx, booking.ID, requesterID, historyModel.ActionUpdated, reasonUpdated)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, id, adminID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.ensureAdmin(ctx, tx, adminID, "only admins can approve bookings"); err != nil {
			return err
		}

		booking, err = s.loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if booking.Status != model.StatusPending {
			return failure.InvalidState("only pending bookings can be approved") //nolint:wrapcheck
		}

		if err := s.ensureRoomFree(ctx, tx, booking.RoomID, booking.Slot(), booking.ID, "room is no longer available for the specified time period"); err != nil {
			return err
		}

		if err := s.transition(ctx, tx, &booking, model.StatusApproved, adminID); err != nil {
			return err
		}

		return s.record(ctx, tx, booking.ID, adminID, historyModel.ActionApproved, reasonApproved)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Reject(ctx context.Context, id, adminID, reason string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.ensureAdmin(ctx, tx, adminID, "only admins can reject bookings"); err != nil {
			return err
		}

		booking, err = s.loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if booking.Status != model.StatusPending {
			return failure.InvalidState("only pending bookings can be rejected") //nolint:wrapcheck
		}

		if err := s.transition(ctx, tx, &booking, model.StatusRejected, adminID); err != nil {
			return err
		}

		return s.record(ctx, tx, booking.ID, adminID, historyModel.ActionRejected, reasonRejectedPrefix+reason)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id, userID string, isAdmin bool) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var booking model.Booking

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err = s.loadForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if !isAdmin && !booking.IsOwnedBy(userID) {
			return failure.Forbidden("user can only cancel their own bookings") //nolint:wrapcheck
		}

		if !booking.Status.IsCancellable() {
			return failure.InvalidState("booking cannot be cancelled in current status: " + booking.Status.String()) //nolint:wrapcheck
		}

		if !isAdmin && s.clock.Now().After(booking.StartTime) {
			return failure.Forbidden("cannot cancel after start time") //nolint:wrapcheck
		}

		if err := s.transition(ctx, tx, &booking, model.StatusCancelled, userID); err != nil {
			return err
		}

		reason := reasonCancelledByUser
		if isAdmin {
			reason = reasonCancelledByAdmin
		}

		return s.record(ctx, tx, booking.ID, userID, historyModel.ActionCancelled, reason)
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) IsRoomAvailable(ctx context.Context, roomID string, start, end time.Time) (available bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.IsRoomAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !end.After(start) {
		return false, failure.InvalidDate("end time must be after start time") //nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return false, fmt.Errorf("failed to get room: %w", err)
	}

	if !room.IsBookable() {
		return false, nil
	}

	return s.detector.Available(ctx, roomID, start, end) //nolint:wrapcheck
}

func (s *serviceImpl) GetHistory(ctx context.Context, id string) (res dto.HistoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetHistory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName), model.FieldID, model.FieldUserID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	entries, err := s.ledger.FindByBooking(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking history")

		return res, fmt.Errorf("failed to get booking history: %w", err)
	}

	res.BookingID = id
	res.UserID = booking.UserID
	res.Entries = historyDto.FromModels(entries)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return cache.Remember(ctx, s.cache, shared.BuildCacheKey(cacheGetBooking, id), s.cfg.Cache.TTL,
		func(ctx context.Context) (found dto.BookingResponse, err error) {
			booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
			if err != nil {
				log.Error().Err(err).Str("bookingID", id).Msg("failed to get booking")

				return found, fmt.Errorf("failed to get booking: %w", err)
			}

			if booking.ID == constant.Empty {
				return found, failure.NotFound("booking not found") //nolint:wrapcheck
			}

			found.FromModel(booking)

			return found, nil
		})
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (page dto.GetBookingsResponse, err error) {
		total, err := s.Count(ctx, req, filter)
		if err != nil {
			return page, err
		}

		bookings, err := s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list bookings")

			return page, fmt.Errorf("failed to list bookings: %w", err)
		}

		page.FromModels(bookings, total, req.Limit)

		return page, nil
	})
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	return cache.Remember(ctx, s.cache, key, s.cfg.Cache.TTL, func(ctx context.Context) (int, error) {
		total, err := s.repo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to count bookings")

			return 0, fmt.Errorf("failed to count bookings: %w", err)
		}

		return total, nil
	})
}

func (s *serviceImpl) RoomSchedule(ctx context.Context, roomID string, start, end time.Time) (res dto.RoomScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.RoomSchedule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName), roomModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") //nolint:wrapcheck
	}

	bookings, err := s.detector.Conflicts(ctx, roomID, start, end)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.RoomID = roomID
	res.StartTime = timezone.Format(start, constant.DateFormat)
	res.EndTime = timezone.Format(end, constant.DateFormat)
	res.Bookings = dto.FromModels(bookings)

	return res, nil
}

// ensureRoomFree takes the room timeline lock and fails with message when slot conflicts.
func (s *serviceImpl) ensureRoomFree(ctx context.Context, tx *sqlx.Tx, roomID string, slot model.Slot, excludeID, message string) error {
	if err := s.repo.LockRoomTimelineTx(ctx, tx, roomID); err != nil {
		return err //nolint:wrapcheck
	}

	conflict, err := s.detector.HasConflict(ctx, tx, roomID, slot.Start, slot.End, excludeID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if conflict {
		return failure.Conflict(message) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) loadUser(ctx context.Context, tx *sqlx.Tx, userID, notFound string) (userModel.User, error) {
	user, err := s.userRepo.GetByIDTx(ctx, tx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound(notFound) //nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) ensureAdmin(ctx context.Context, tx *sqlx.Tx, adminID, forbidden string) error {
	admin, err := s.loadUser(ctx, tx, adminID, "admin user not found")
	if err != nil {
		return err
	}

	if !admin.Role.IsAdmin() {
		return failure.Forbidden(forbidden) //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) loadForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (model.Booking, error) {
	booking, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") //nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) transition(ctx context.Context, tx *sqlx.Tx, booking *model.Booking, status model.Status, actorID string) error {
	now := s.clock.Now()

	err := s.repo.UpdateTx(ctx, tx, shared.ChangedColumns(model.Transition{Status: status}, actorID, now), shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("status", status.String()).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = status
	booking.ModifiedAt = now
	booking.ModifiedBy = actorID

	return nil
}

func (s *serviceImpl) record(ctx context.Context, tx *sqlx.Tx, bookingID, actorID string, action historyModel.Action, reason string) error {
	return s.ledger.Append(ctx, tx, historyModel.Entry{ //nolint:wrapcheck
		BookingID: bookingID,
		UserID:    actorID,
		Action:    action,
		Reason:    &reason,
	})
}

// invalidate runs after commit; cache faults are logged only.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}
