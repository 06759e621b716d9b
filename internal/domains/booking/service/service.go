package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"stay/config"
	"stay/infras/kafka"
	"stay/infras/otel"
	"stay/internal/domains/booking/model"
	"stay/internal/domains/booking/model/dto"
	"stay/internal/domains/booking/repository"
	roomModel "stay/internal/domains/room/model"
	roomDto "stay/internal/domains/room/model/dto"
	roomRepo "stay/internal/domains/room/repository"
	"stay/shared"
	"stay/shared/cache"
	"stay/shared/constant"
	gDto "stay/shared/dto"
	"stay/shared/failure"
	"stay/shared/timezone"

	"github.com/jmoiron/sqlx"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, id string) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	events   kafka.Client
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, events kafka.Client) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		events:   events,
	}
}

// Create books a room for the requested window. The availability check
// and the insert run in one transaction under a per-room advisory lock,
// so two concurrent requests for the same room cannot both pass the
// capacity guard.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	stay, err := req.Stay()
	if err != nil {
		return res, err
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	booking := req.ToModel(user, stay, room.PricePerNight)

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.LockRoomTx(ctx, tx, room.ID); err != nil {
			return err
		}

		active, err := s.repo.GetActiveOverlappingTx(ctx, tx, room.ID, stay)
		if err != nil {
			return err
		}

		availability, err := model.CheckAvailability(room.Capacity, req.NumberOfGuests, stay, active)
		if err != nil {
			return err
		}

		if !availability.Available {
			occupied := model.OccupancyOn(availability.ConflictDate, active)

			return failure.BadRequestFromString(fmt.Sprintf(
				"room not available for date %s: %d of %d capacity occupied",
				timezone.Format(availability.ConflictDate, constant.DateOnlyFormat), occupied, room.Capacity,
			)) // nolint:wrapcheck
		}

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to create booking")

		return res, err
	}

	s.publishEvent(ctx, dto.EventCreated, booking)
	s.invalidateCaches(ctx, booking)

	res.Booking.FromModel(booking)
	res.Room = s.annotateRoom(ctx, room, stay)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Cancel moves a PENDING or CONFIRMED booking to CANCELLED. Cancellation
// is a status, not a removal; the total is never refunded or recomputed.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.StatusCancelled, dto.EventCancelled, nil)
}

// CheckIn records the real arrival time without touching the requested
// stay dates.
func (s *serviceImpl) CheckIn(ctx context.Context, id string) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.StatusCheckedIn, dto.EventCheckedIn, map[string]any{
		model.FieldActualCheckIn: timezone.Now(),
	})
}

func (s *serviceImpl) CheckOut(ctx context.Context, id string) (dto.BookingResponse, error) {
	return s.transition(ctx, id, model.StatusCheckedOut, dto.EventCheckedOut, map[string]any{
		model.FieldActualCheckOut: timezone.Now(),
	})
}

// transition is the single place lifecycle guards are enforced. The guard
// is validated against the stored state first for a descriptive error,
// then applied with a conditional update so a concurrent transition can
// never slip through between the read and the write.
func (s *serviceImpl) transition(ctx context.Context, id string, to model.Status, eventType dto.EventType, fields map[string]any) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, fmt.Sprintf("%s.Transition.%s", constant.OtelServiceScopeName, to))
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	if err = model.Transition(booking.Status, to); err != nil {
		log.Warn().Str("booking_id", id).Str("from", booking.Status.String()).Str("to", to.String()).Msg("illegal booking transition rejected")

		return res, err
	}

	if fields == nil {
		fields = map[string]any{}
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = user

	applied, err := s.repo.UpdateStatusGuarded(ctx, id, to, fields)
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	if !applied {
		// Lost a race with another transition; the stored state moved on.
		return res, failure.BadRequestFromString(fmt.Sprintf("booking is no longer in a state that allows %s", to)) // nolint:wrapcheck
	}

	updated, err := s.getBooking(ctx, id)
	if err != nil {
		return res, err
	}

	s.publishEvent(ctx, eventType, updated)
	s.invalidateCaches(ctx, updated)

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) annotateRoom(ctx context.Context, room roomModel.Room, stay model.StayRange) roomDto.AvailableRoomResponse {
	res := roomDto.AvailableRoomResponse{AvailableCapacity: room.Capacity}
	res.FromModel(room)

	active, err := s.repo.GetActiveOverlapping(ctx, room.ID, stay)
	if err != nil {
		log.Warn().Err(err).Str("room_id", room.ID).Msg("failed to compute room occupancy")

		return res
	}

	res.AvailableCapacity = room.Capacity - model.PeakOccupancy(stay, active)

	return res
}

func (s *serviceImpl) publishEvent(ctx context.Context, eventType dto.EventType, booking model.Booking) {
	if s.events == nil || s.cfg.Kafka.Topic.BookingEvents == constant.Empty {
		return
	}

	event := dto.NewBookingEvent(eventType, booking)

	go func() {
		c := context.WithoutCancel(ctx)

		err := s.events.SendMessages(c, s.cfg.Kafka.Topic.BookingEvents, kafka.Message{
			Key:   booking.ID,
			Value: event,
		})
		if err != nil {
			log.Error().Err(err).Str("booking_id", booking.ID).Str("event", string(eventType)).Msg("failed to publish booking event")
		}
	}()
}

func (s *serviceImpl) invalidateCaches(ctx context.Context, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
