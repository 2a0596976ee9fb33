package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fieldbook/infras/otel"
	"fieldbook/infras/postgres"
	"fieldbook/internal/domains/booking/model"
	"fieldbook/shared"
	"fieldbook/shared/constant"
	gDto "fieldbook/shared/dto"
	gRepo "fieldbook/shared/repository"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const lockResourceQuery = "SELECT pg_advisory_xact_lock(hashtext(:resource_id))"

var ErrLockOutsideTx = errors.New("resource locks require a transaction")

// Booking is the booking store. Atomic runs fn against a store bound to one transaction;
// every call made through that store commits or rolls back together.
type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	FindByResourceAndWindow(ctx context.Context, resourceID string, from, to time.Time) ([]model.Booking, error)
	InsertMany(ctx context.Context, bookings []model.Booking) ([]model.Booking, error)
	UpdateByID(ctx context.Context, id string, fields map[string]any) error
	DeleteByID(ctx context.Context, id string) error
	LockResources(ctx context.Context, resourceIDs []string) error
	Atomic(ctx context.Context, fn func(ctx context.Context, store Booking) error) error
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

// FindByResourceAndWindow returns the active bookings on resourceID dated from..to inclusive,
// ordered by date and start time.
func (r *repositoryImpl) FindByResourceAndWindow(ctx context.Context, resourceID string, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindByResourceAndWindow")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		model.FieldResourceID: resourceID,
		"from":                from.Format(constant.DateFormat),
		"to":                  to.Format(constant.DateFormat),
	})

	filter := windowFilter(resourceID, from, to)

	params := gDto.QueryParams{
		SortBy:  model.DefaultSort,
		SortDir: gDto.SortDirAsc,
	}

	bookings, err := r.GetAll(ctx, params, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by resource and window: %w", err)
	}

	return bookings, nil
}

func windowFilter(resourceID string, from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldResourceID, Value: resourceID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusCancelled, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
			gDto.Filter{ArgName: "date_from", Field: model.FieldBookingDate, Value: from.Format(constant.DateFormat), Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
			gDto.Filter{ArgName: "date_to", Field: model.FieldBookingDate, Value: to.Format(constant.DateFormat), Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		},
	}
}

// InsertMany writes every booking in one statement, assigning ids to those without one.
func (r *repositoryImpl) InsertMany(ctx context.Context, bookings []model.Booking) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertMany")
	defer scope.End()

	scope.SetAttribute("count", len(bookings))

	created := make([]model.Booking, len(bookings))

	for i, booking := range bookings {
		if booking.ID == constant.Empty {
			booking.ID = uuid.NewString()
		}

		created[i] = booking
	}

	if err := r.InsertBulk(ctx, created); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to insert bookings: %w", err)
	}

	return created, nil
}

func (r *repositoryImpl) UpdateByID(ctx context.Context, id string, fields map[string]any) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateByID")
	defer scope.End()

	if err := r.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	return nil
}

func (r *repositoryImpl) DeleteByID(ctx context.Context, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.DeleteByID")
	defer scope.End()

	if err := r.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}

	return nil
}

// LockResources takes a transaction-scoped advisory lock per resource so writers targeting the
// same resource run their check and insert one after another. Locks are taken in sorted order.
func (r *repositoryImpl) LockResources(ctx context.Context, resourceIDs []string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockResources")
	defer scope.End()

	if !r.InTx() {
		return ErrLockOutsideTx
	}

	for _, resourceID := range shared.UniqueSorted(resourceIDs) {
		if err := r.Exec(ctx, lockResourceQuery, map[string]any{model.FieldResourceID: resourceID}); err != nil {
			scope.TraceError(err)

			return fmt.Errorf("failed to lock resource %s: %w", resourceID, err)
		}
	}

	return nil
}

func (r *repositoryImpl) Atomic(ctx context.Context, fn func(ctx context.Context, store Booking) error) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Atomic")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if r.InTx() {
		return fn(ctx, r)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start booking transaction: %w", err)
	}

	store := &repositoryImpl{
		Repository: r.WithTx(tx),
		otel:       r.otel,
	}

	return settle(tx, func() error {
		return fn(ctx, store)
	})
}

type transaction interface {
	Commit() error
	Rollback() error
}

// settle commits tx when run succeeds and rolls it back when run fails or panics. A panic is
// raised again once the rollback has released the advisory locks.
func settle(tx transaction, run func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			rollback(tx)

			panic(p)
		}
	}()

	if err = run(); err != nil {
		rollback(tx)

		return err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit booking transaction")

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

func rollback(tx transaction) {
	if err := tx.Rollback(); err != nil {
		log.Error().Err(err).Msg("failed to roll back booking transaction")
	}
}
