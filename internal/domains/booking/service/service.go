package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fieldbook/config"
	"fieldbook/infras/otel"
	"fieldbook/internal/domains/booking/conflict"
	"fieldbook/internal/domains/booking/event"
	"fieldbook/internal/domains/booking/model"
	"fieldbook/internal/domains/booking/model/dto"
	"fieldbook/internal/domains/booking/recurrence"
	"fieldbook/internal/domains/booking/repository"
	resourceRepo "fieldbook/internal/domains/resource/repository"
	"fieldbook/shared"
	"fieldbook/shared/cache"
	"fieldbook/shared/constant"
	gDto "fieldbook/shared/dto"
	"fieldbook/shared/failure"
	gRepo "fieldbook/shared/repository"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

var (
	ErrConfirmWithoutResource = failure.Unprocessable("a booking must be assigned to a resource before it is confirmed")
	ErrCancelledIsFinal       = failure.Unprocessable("a cancelled booking cannot change status")
	ErrConfirmedToPlanned     = failure.Unprocessable("a confirmed booking cannot return to planned")
	ErrResourceNotFound       = failure.BadRequestFromString("resource does not exist or is inactive")
	ErrBookingNotFound        = failure.NotFound("booking not found")
	ErrConcurrentOverlap      = failure.Conflict("booking overlaps a booking written at the same time")
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingsResponse, error)
	ConvertToRecurring(ctx context.Context, req dto.ConvertToRecurringRequest, id string) (dto.BookingsResponse, error)
	CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo         repository.Booking
	resourceRepo resourceRepo.Resource
	publisher    event.Publisher
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel

	// writes counts committed writes so reads started before one are not cached after it.
	writes  atomic.Uint64
	pending sync.WaitGroup
}

// New returns the booking service and a cleanup that waits for its background cache and
// event work to finish.
func New(
	repo repository.Booking,
	resourceRepo resourceRepo.Resource,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) (Booking, func()) {
	svc := &serviceImpl{
		repo:         repo,
		resourceRepo: resourceRepo,
		publisher:    publisher,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}

	return svc, svc.pending.Wait
}

// Create writes one booking, or every instance of the requested recurrence, as a single unit.
// Nothing is persisted when any instance conflicts.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	plan, err := req.ToPlan()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	template, err := req.ToModel(user)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if template.Status == model.StatusConfirmed && template.ResourceID == nil {
		return res, ErrConfirmWithoutResource
	}

	if err = s.ensureResource(ctx, template.ResourceID); err != nil {
		return res, err
	}

	bookings, err := s.materialize(template, plan)
	if err != nil {
		return res, err
	}

	var created []model.Booking

	err = s.repo.Atomic(ctx, func(ctx context.Context, store repository.Booking) error {
		if err := lockAndCheck(ctx, store, windowsOf(bookings), nil); err != nil {
			return err
		}

		inserted, err := store.InsertMany(ctx, bookings)
		if err != nil {
			return err
		}

		created = inserted

		return nil
	})
	if err != nil {
		return res, s.writeError(err, "failed to create bookings")
	}

	rule := ruleText(plan)
	if plan.IsRecurring() {
		log.Info().Str("rule", rule).Int("count", len(created)).Msg("recurring booking created")
	}

	res.FromModels(created, rule)

	s.afterWrite(ctx, event.TypeCreated, user, res.Bookings, rule, constant.Empty)

	return res, nil
}

// ConvertToRecurring replaces a single booking with the series its rule expands to. The
// original is only deleted when the whole series is inserted.
func (s *serviceImpl) ConvertToRecurring(ctx context.Context, req dto.ConvertToRecurringRequest, id string) (res dto.BookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConvertToRecurring")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	original, err := s.find(ctx, s.repo, id)
	if err != nil {
		return res, err
	}

	if !original.Active() {
		return res, ErrCancelledIsFinal
	}

	template, rule, err := req.ToTemplate(original, user)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if template.Status == model.StatusConfirmed && template.ResourceID == nil {
		return res, ErrConfirmWithoutResource
	}

	if template.Resource() != original.Resource() {
		if err = s.ensureResource(ctx, template.ResourceID); err != nil {
			return res, err
		}
	}

	plan := recurrence.Recurring(rule)

	bookings, err := s.materialize(template, plan)
	if err != nil {
		return res, err
	}

	var created []model.Booking

	err = s.repo.Atomic(ctx, func(ctx context.Context, store repository.Booking) error {
		if _, err := s.find(ctx, store, id); err != nil {
			return err
		}

		if err := lockAndCheck(ctx, store, windowsOf(bookings), []string{id}); err != nil {
			return err
		}

		if err := store.DeleteByID(ctx, id); err != nil {
			return err
		}

		inserted, err := store.InsertMany(ctx, bookings)
		if err != nil {
			return err
		}

		created = inserted

		return nil
	})
	if err != nil {
		return res, s.writeError(err, "failed to convert booking to recurring")
	}

	log.Info().Str("id", id).Str("rule", rule.String()).Int("count", len(created)).Msg("booking converted to recurring")

	res.FromModels(created, rule.String())

	s.afterWrite(ctx, event.TypeConverted, user, res.Bookings, rule.String(), id)

	return res, nil
}

// CheckAvailability reports the conflicts a booking would meet without writing anything.
func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	create := req.ToCreateRequest()

	plan, err := create.ToPlan()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	template, err := create.ToModel(constant.Empty)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	bookings, err := s.materialize(template, plan)
	if err != nil {
		return res, err
	}

	conflicts, err := conflict.Find(ctx, s.repo, windowsOf(bookings), req.ExcludeIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking availability")

		return res, fmt.Errorf("failed to check booking availability: %w", err)
	}

	res.Available = len(conflicts) == 0
	res.Checked = len(bookings)
	res.Conflicts = conflicts

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	generation := s.writes.Load()

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	s.background(ctx, func(c context.Context) {
		s.remember(c, cacheKey, res, generation)
	})

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	generation := s.writes.Load()

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	s.background(ctx, func(c context.Context) {
		s.remember(c, cacheKey, res, generation)
	})

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	generation := s.writes.Load()

	booking, err := s.find(ctx, s.repo, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	s.background(ctx, func(c context.Context) {
		s.remember(c, cacheKey, res, generation)
	})

	return res, nil
}

// Update edits one booking. Instances of a former series are edited alone.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequest(dto.ErrEmptyUpdate) // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, s.repo, id)
	if err != nil {
		return res, err
	}

	next, err := req.Apply(current, user)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = checkTransition(current, next); err != nil {
		return res, err
	}

	if next.ResourceID != nil && next.Resource() != current.Resource() {
		if err = s.ensureResource(ctx, next.ResourceID); err != nil {
			return res, err
		}
	}

	err = s.repo.Atomic(ctx, func(ctx context.Context, store repository.Booking) error {
		if next.Active() {
			if err := lockAndCheck(ctx, store, windowsOf([]model.Booking{next}), []string{id}); err != nil {
				return err
			}
		}

		return store.UpdateByID(ctx, id, updatedFields(next))
	})
	if err != nil {
		return res, s.writeError(err, "failed to update booking")
	}

	res.FromModel(next)

	s.afterWrite(ctx, event.TypeUpdated, user, []dto.BookingResponse{res}, constant.Empty, constant.Empty)

	return res, nil
}

// Delete removes exactly one booking, never the rest of the series it came from.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.find(ctx, s.repo, id)
	if err != nil {
		return err
	}

	if err = s.repo.DeleteByID(ctx, id); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	var deleted dto.BookingResponse
	deleted.FromModel(booking)

	s.afterWrite(ctx, event.TypeDeleted, user, []dto.BookingResponse{deleted}, constant.Empty, constant.Empty)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, store repository.Booking, id string) (model.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Booking{}, ErrBookingNotFound
	}

	booking, err := store.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, ErrBookingNotFound
	}

	return booking, nil
}

func (s *serviceImpl) ensureResource(ctx context.Context, resourceID *string) error {
	if resourceID == nil {
		return nil
	}

	exist, err := s.resourceRepo.Exist(ctx, resourceRepo.ActiveFilter(*resourceID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if resource exists")

		return fmt.Errorf("failed to check if resource exists: %w", err)
	}

	if !exist {
		return ErrResourceNotFound
	}

	return nil
}

// materialize copies the template onto every date the plan covers.
func (s *serviceImpl) materialize(template model.Booking, plan recurrence.Plan) ([]model.Booking, error) {
	rule, ok := plan.Rule()
	if !ok {
		return []model.Booking{template}, nil
	}

	occurrences, err := recurrence.ExpandAtMost(rule, s.cfg.Booking.MaxSeriesInstances)
	if err != nil {
		return nil, failure.BadRequest(err) // nolint:wrapcheck
	}

	if len(occurrences) == 0 {
		return nil, failure.BadRequest(recurrence.ErrNoOccurrences) // nolint:wrapcheck
	}

	bookings := make([]model.Booking, len(occurrences))

	for i, occurrence := range occurrences {
		booking := template
		booking.BookingDate = occurrence.Date
		booking.StartTime = occurrence.Start
		booking.EndTime = occurrence.End
		booking.TeamIDs = slices.Clone(template.TeamIDs)

		bookings[i] = booking
	}

	return bookings, nil
}

// writeError keeps domain errors as they are and wraps store failures.
func (s *serviceImpl) writeError(err error, msg string) error {
	var conflictErr *conflict.Error
	if errors.As(err, &conflictErr) {
		log.Warn().Strs("conflicts", conflictErr.BookingIDs()).Msg(msg)

		return conflictErr
	}

	var fail *failure.Failure
	if errors.As(err, &fail) {
		return fail
	}

	if errors.Is(err, gRepo.ErrExclusionViolation) {
		log.Warn().Err(err).Msg(msg)

		return ErrConcurrentOverlap
	}

	if errors.Is(err, gRepo.ErrForeignKeyViolation) {
		log.Warn().Err(err).Msg(msg)

		return ErrResourceNotFound
	}

	log.Error().Err(err).Msg(msg)

	return fmt.Errorf("%s: %w", msg, err)
}

// afterWrite drops cached reads and announces the change once the write has committed.
func (s *serviceImpl) afterWrite(ctx context.Context, eventType event.Type, user string, bookings []dto.BookingResponse, rule, replacedID string) {
	evt := event.New(eventType, user, bookings)
	evt.Rule = rule
	evt.ReplacedID = replacedID

	s.writes.Add(1)

	s.background(ctx, func(c context.Context) {
		keys := []string{}

		for _, id := range append(bookingIDs(bookings), replacedID) {
			if id != constant.Empty {
				keys = append(keys, shared.BuildCacheKey(cacheGetBooking, id))
			}
		}

		if err := s.cache.Delete(c, keys...); err != nil {
			log.Error().Err(err).Msg("failed to delete bookings from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		if err := s.publisher.Publish(c, evt); err != nil {
			log.Error().Err(err).Str("event", string(eventType)).Msg("failed to publish booking event")
		}
	})
}

// background runs fn after the request, detached from its cancellation.
func (s *serviceImpl) background(ctx context.Context, fn func(ctx context.Context)) {
	s.pending.Add(1)

	go func() {
		defer s.pending.Done()

		fn(context.WithoutCancel(ctx))
	}()
}

// remember caches a read unless a write committed after generation was taken. A write landing
// while the entry is saved drops it again.
func (s *serviceImpl) remember(ctx context.Context, key string, value any, generation uint64) {
	if s.writes.Load() != generation {
		return
	}

	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save bookings to cache")

		return
	}

	if s.writes.Load() != generation {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to drop stale booking cache")
		}
	}
}

// lockAndCheck serialises writers on the touched resources, then looks for conflicts with
// what the transaction can see.
func lockAndCheck(ctx context.Context, store repository.Booking, windows []conflict.Window, exclude []string) error {
	resources := make([]string, 0, len(windows))
	for _, window := range windows {
		resources = append(resources, window.ResourceID)
	}

	resources = shared.UniqueSorted(resources)
	if len(resources) == 0 {
		return nil
	}

	if err := store.LockResources(ctx, resources); err != nil {
		return fmt.Errorf("failed to lock resources: %w", err)
	}

	conflicts, err := conflict.Find(ctx, store, windows, exclude)
	if err != nil {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	if len(conflicts) > 0 {
		return &conflict.Error{Conflicts: conflicts}
	}

	return nil
}

// checkTransition enforces the status rules between the stored and the edited booking.
func checkTransition(current, next model.Booking) error {
	switch {
	case current.Status == model.StatusCancelled && next.Status != model.StatusCancelled:
		return ErrCancelledIsFinal
	case current.Status == model.StatusConfirmed && next.Status == model.StatusPlanned:
		return ErrConfirmedToPlanned
	case next.Status == model.StatusConfirmed && next.ResourceID == nil:
		return ErrConfirmWithoutResource
	}

	return nil
}

func updatedFields(b model.Booking) map[string]any {
	return map[string]any{
		model.FieldResourceID:         b.ResourceID,
		model.FieldBookingDate:        b.Day().Format(constant.DateFormat),
		model.FieldStartTime:          b.StartTime,
		model.FieldEndTime:            b.EndTime,
		model.FieldTeamIDs:            b.TeamIDs,
		model.FieldClassification:     b.Classification,
		model.FieldStatus:             b.Status,
		model.FieldNotes:              b.Notes,
		model.FieldOpponent:           b.Opponent,
		model.FieldExpectedAttendance: b.ExpectedAttendance,
		constant.FieldModifiedAt:      b.ModifiedAt,
		constant.FieldModifiedBy:      b.ModifiedBy,
	}
}

func windowsOf(bookings []model.Booking) []conflict.Window {
	windows := make([]conflict.Window, len(bookings))
	for i, booking := range bookings {
		windows[i] = conflict.WindowOf(booking)
	}

	return windows
}

func bookingIDs(bookings []dto.BookingResponse) []string {
	ids := make([]string, len(bookings))
	for i, booking := range bookings {
		ids[i] = booking.ID
	}

	return ids
}

func ruleText(plan recurrence.Plan) string {
	if rule, ok := plan.Rule(); ok {
		return rule.String()
	}

	return constant.Empty
}
