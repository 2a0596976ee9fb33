package dto_test

import (
	"fieldbook/shared/constant"
	"fieldbook/shared/dto"
	"fieldbook/shared/model"
	"fieldbook/shared/timezone"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, timezone.Format(createdAt, constant.DateTimeFormat), metadata.CreatedAt)
	assert.Equal(t, timezone.Format(modifiedAt, constant.DateTimeFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)

	fresh := &dto.Metadata{}
	fresh.FromModel(model.NewMetadata("creator", createdAt))

	assert.Equal(t, "creator", fresh.CreatedBy)
	assert.Empty(t, fresh.ModifiedAt)
	assert.Empty(t, fresh.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		rawQuery       string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			rawQuery: "page=2&limit=20&sort_by=booking_date&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "booking_date", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults when empty",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults when disabled",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back to defaults",
			rawQuery:       "page=-1&limit=abc",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			rawQuery: "sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.rawQuery, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "resource_id", Value: "field-a", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.resource_id = :resource_id",
			wantArgs:  map[string]any{"resource_id": "field-a"},
		},
		{
			name:      "less with arg name",
			filter:    dto.Filter{ArgName: "window_end", Field: "start_time", Value: "20:00:00", Operator: dto.FilterOperatorLess},
			wantWhere: "start_time < :window_end",
			wantArgs:  map[string]any{"window_end": "20:00:00"},
		},
		{
			name:      "greater",
			filter:    dto.Filter{Field: "end_time", Value: "18:00:00", Operator: dto.FilterOperatorGreater},
			wantWhere: "end_time > :end_time",
			wantArgs:  map[string]any{"end_time": "18:00:00"},
		},
		{
			name:      "not in slice",
			filter:    dto.Filter{Field: "id", Value: []string{"a", "b"}, Operator: dto.FilterOperatorNotIn},
			wantWhere: "id NOT IN (:id_0, :id_1) ",
			wantArgs:  map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name:      "in slice",
			filter:    dto.Filter{Field: "status", Value: []string{"planned"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0) ",
			wantArgs:  map[string]any{"status_0": "planned"},
		},
		{
			name:      "array contains",
			filter:    dto.Filter{ArgName: "team_id", Field: "team_ids", Value: "u12", Operator: dto.FilterOperatorContains, Table: "bookings"},
			wantWhere: "bookings.team_ids @> CAST(ARRAY[:team_id] AS text[])",
			wantArgs:  map[string]any{"team_id": "u12"},
		},
		{
			name:      "in scalar binds a single parameter",
			filter:    dto.Filter{Field: "status", Value: "planned", Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0) ",
			wantArgs:  map[string]any{"status_0": "planned"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "empty not in matches everything",
			filter:    dto.Filter{Field: "id", Value: []string{}, Operator: dto.FilterOperatorNotIn},
			wantWhere: "TRUE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator renders nothing",
			filter:    dto.Filter{Field: "id", Value: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "resource_id", Operator: dto.FilterIsNull},
			wantWhere: "resource_id IS NULL",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "resource_id", Value: "field-a", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "status", Value: "cancelled", Operator: dto.FilterOperatorNotEq},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(resource_id = :resource_id AND status != :status)", where)
	assert.Equal(t, map[string]any{"resource_id": "field-a", "status": "cancelled"}, args)

	empty := dto.FilterGroup{}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)

	nested := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "x", Operator: "between"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "status_a", Field: "status", Value: "planned", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "status_b", Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
				},
			},
			dto.Filter{Field: "resource_id", Operator: dto.FilterIsNotNull},
		},
	}

	where, args = nested.GetWhereClause()

	assert.Equal(t, "((status = :status_a OR status = :status_b) AND resource_id IS NOT NULL)", where)
	assert.Equal(t, map[string]any{"status_a": "planned", "status_b": "confirmed"}, args)
}

func TestFilterGroup_BindsWithSqlx(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "resource_id", Value: "field-a", Operator: dto.FilterOperatorEq, Table: "bookings"},
			dto.Filter{ArgName: "team_id", Field: "team_ids", Value: "u12", Operator: dto.FilterOperatorContains, Table: "bookings"},
			dto.Filter{Field: "status", Value: []string{"planned", "confirmed"}, Operator: dto.FilterOperatorIn, Table: "bookings"},
		},
	}

	where, args := group.GetWhereClause()

	query, bound, err := sqlx.Named("SELECT 1 FROM bookings WHERE "+where, args)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT 1 FROM bookings WHERE (bookings.resource_id = $1 AND bookings.team_ids @> CAST(ARRAY[$2] AS text[]) AND bookings.status IN ($3, $4) )",
		sqlx.Rebind(sqlx.DOLLAR, query))
	assert.Equal(t, []any{"field-a", "u12", "planned", "confirmed"}, bound)
}

func TestQueryParams_RestrictSort(t *testing.T) {
	allowed := []string{"booking_date", "status"}

	tests := []struct {
		name     string
		params   dto.QueryParams
		expected dto.QueryParams
	}{
		{
			name:     "allowed column kept",
			params:   dto.QueryParams{SortBy: "status", SortDir: dto.SortDirDesc},
			expected: dto.QueryParams{SortBy: "status", SortDir: dto.SortDirDesc},
		},
		{
			name:     "allowed column gets default direction",
			params:   dto.QueryParams{SortBy: "status"},
			expected: dto.QueryParams{SortBy: "status", SortDir: constant.DefaultValueSortDir},
		},
		{
			name:     "unknown column replaced",
			params:   dto.QueryParams{SortBy: "1; DROP TABLE bookings", SortDir: dto.SortDirDesc},
			expected: dto.QueryParams{SortBy: "booking_date", SortDir: dto.SortDirAsc},
		},
		{
			name:     "missing column replaced",
			params:   dto.QueryParams{Page: 3},
			expected: dto.QueryParams{Page: 3, SortBy: "booking_date", SortDir: dto.SortDirAsc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.params
			params.RestrictSort("booking_date", dto.SortDirAsc, allowed...)

			assert.Equal(t, tt.expected, params)
		})
	}
}
