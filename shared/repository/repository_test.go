package repository

import (
	"errors"
	"fieldbook/shared/dto"
	"fieldbook/shared/model"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	ID         string         `db:"id"`
	ResourceID string         `db:"resource_id"`
	TeamIDs    pq.StringArray `db:"team_ids"`
	Scratch    string         `db:"-"`
	Label      string
	model.Metadata
}

func newSlots() Repository[slot] {
	return NewRepository[slot]("slot", "slots", "id", nil, nil)
}

func TestColumnsOf(t *testing.T) {
	repo := newSlots()

	assert.Equal(t, []string{"id", "resource_id", "team_ids", "created_at", "modified_at", "created_by", "modified_by"}, repo.columns)
	assert.Equal(t,
		"INSERT INTO slots (id, resource_id, team_ids, created_at, modified_at, created_by, modified_by) "+
			"VALUES (:id, :resource_id, :team_ids, :created_at, :modified_at, :created_by, :modified_by)",
		repo.insertQuery())
	assert.Equal(t, "slots.id, slots.team_ids", repo.selectList([]string{"team_ids", "id"}))
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name    string
		sortBy  string
		dir     string
		want    string
		wantErr bool
	}{
		{name: "none", want: ""},
		{name: "single column", sortBy: "resource_id", dir: "DESC", want: " ORDER BY slots.resource_id DESC"},
		{name: "compound", sortBy: "created_at ASC, id", dir: "ASC", want: " ORDER BY slots.created_at ASC, slots.id ASC"},
		{name: "qualified", sortBy: "slots.id", want: " ORDER BY slots.id"},
		{name: "lowercase direction", sortBy: "id desc", want: " ORDER BY slots.id DESC"},
		{name: "unknown column", sortBy: "label", dir: "ASC", wantErr: true},
		{name: "injection", sortBy: "id; DROP TABLE slots", wantErr: true},
		{name: "bad direction", sortBy: "id sideways", wantErr: true},
		{name: "empty segment", sortBy: "id,,resource_id", wantErr: true},
	}

	repo := newSlots()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.orderBy(tt.sortBy, tt.dir)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSort)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWhere(t *testing.T) {
	repo := newSlots()

	where, args := repo.where(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.where(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  []any{dto.Filter{Field: "id", Value: "s1", Operator: dto.FilterOperatorEq, Table: "slots"}},
	})
	assert.Equal(t, " WHERE (slots.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "s1"}, args)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion", err: &pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"}, want: ErrExclusionViolation},
		{name: "foreign key", err: fmt.Errorf("exec: %w", &pq.Error{Code: "23503"}), want: ErrForeignKeyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err), tt.want)
		})
	}

	unique := &pq.Error{Code: "23505"}
	assert.Same(t, unique, mapError(unique))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapError(plain))
}
