package repository

import (
	"context"
	"errors"
	otelMocks "fieldbook/infras/otel/mocks"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	commits   int
	rollbacks int
	commitErr error
}

func (tx *fakeTx) Commit() error {
	tx.commits++

	return tx.commitErr
}

func (tx *fakeTx) Rollback() error {
	tx.rollbacks++

	return nil
}

func TestSettle(t *testing.T) {
	errInsert := errors.New("insert failed")
	errCommit := errors.New("commit failed")

	tests := []struct {
		name          string
		run           func() error
		commitErr     error
		wantErr       error
		wantCommits   int
		wantRollbacks int
	}{
		{
			name:        "commits on success",
			run:         func() error { return nil },
			wantCommits: 1,
		},
		{
			name:          "rolls back on error",
			run:           func() error { return errInsert },
			wantErr:       errInsert,
			wantRollbacks: 1,
		},
		{
			name:        "commit failure is returned",
			run:         func() error { return nil },
			commitErr:   errCommit,
			wantErr:     errCommit,
			wantCommits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &fakeTx{commitErr: tt.commitErr}

			err := settle(tx, tt.run)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantCommits, tx.commits)
			assert.Equal(t, tt.wantRollbacks, tx.rollbacks)
		})
	}
}

func TestSettle_RollsBackOnPanic(t *testing.T) {
	tx := &fakeTx{}

	assert.PanicsWithValue(t, "insert exploded", func() {
		_ = settle(tx, func() error {
			panic("insert exploded")
		})
	})

	assert.Equal(t, 1, tx.rollbacks)
	assert.Zero(t, tx.commits)
}

func TestLockResources_RequiresTransaction(t *testing.T) {
	repo := New(nil, otelMocks.NewOtel())

	err := repo.LockResources(context.Background(), []string{"field-a"})

	assert.ErrorIs(t, err, ErrLockOutsideTx)
}

func TestWindowFilter(t *testing.T) {
	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)

	filter := windowFilter("field-a", from, to)
	where, args := filter.GetWhereClause()

	query, bound, err := sqlx.Named(where, args)
	require.NoError(t, err)

	assert.Equal(t,
		"(bookings.resource_id = $1 AND bookings.status != $2 AND bookings.booking_date >= $3 AND bookings.booking_date <= $4)",
		sqlx.Rebind(sqlx.DOLLAR, query))
	assert.Equal(t, []any{"field-a", "cancelled", "2026-01-05", "2026-01-16"}, bound)
}
