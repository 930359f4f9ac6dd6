package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unibook/shared/constant"
	"unibook/shared/dto"
	"unibook/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:           "with all valid parameters",
			url:            "/bookings?page=2&limit=20&sort_by=start_time&sort_dir=asc",
			defaultRequest: false,
			expected:       dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_time", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults when nothing provided",
			url:            "/bookings",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "invalid values are ignored",
			url:            "/bookings?page=-1&limit=abc&sort_dir=sideways",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:           "limit is capped",
			url:            "/bookings?limit=5000&sort_dir=DESC",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: 100, SortDir: dto.SortDirDesc},
		},
		{
			name:           "no defaults leaves zero values",
			url:            "/bookings?sort_by=status",
			defaultRequest: false,
			expected:       dto.QueryParams{SortBy: "status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)

			var params dto.QueryParams
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name          string
		filter        dto.Filter
		expectedWhere string
		expectedArgs  map[string]any
	}{
		{
			name:          "equal with table",
			filter:        dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq, Table: "room_bookings"},
			expectedWhere: "room_bookings.room_id = :room_id",
			expectedArgs:  map[string]any{"room_id": "r1"},
		},
		{
			name:          "strictly less with arg name",
			filter:        dto.Filter{ArgName: "window_end", Field: "start_time", Value: 10, Operator: dto.FilterOperatorLess},
			expectedWhere: "start_time < :window_end",
			expectedArgs:  map[string]any{"window_end": 10},
		},
		{
			name:          "strictly greater",
			filter:        dto.Filter{ArgName: "window_start", Field: "end_time", Value: 5, Operator: dto.FilterOperatorGreater},
			expectedWhere: "end_time > :window_start",
			expectedArgs:  map[string]any{"window_start": 5},
		},
		{
			name:          "in expands slice",
			filter:        dto.Filter{Field: "status", Value: []string{"PENDING", "APPROVED"}, Operator: dto.FilterOperatorIn},
			expectedWhere: "status IN (:status_0, :status_1) ",
			expectedArgs:  map[string]any{"status_0": "PENDING", "status_1": "APPROVED"},
		},
		{
			name:          "unknown operator yields nothing",
			filter:        dto.Filter{Field: "status", Value: "x", Operator: "between"},
			expectedWhere: "",
			expectedArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.expectedWhere, where)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Value: "PENDING", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "status_alt", Field: "status", Value: "APPROVED", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :status OR status = :status_alt))", where)
	assert.Equal(t, map[string]any{"room_id": "r1", "status": "PENDING", "status_alt": "APPROVED"}, args)

	implicit := dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq},
		dto.Filter{Field: "status", Value: "x", Operator: "between"},
		dto.Filter{Field: "user_id", Value: "u1", Operator: dto.FilterOperatorEq},
	}}
	where, _ = implicit.GetWhereClause()
	assert.Equal(t, "(room_id = :room_id AND user_id = :user_id)", where)

	empty := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}

func TestFilterGroup_GetWhereClauseOnReturnedValue(t *testing.T) {
	byRoom := func(id string) dto.FilterGroup {
		return dto.FilterGroup{Filters: []any{dto.Filter{Field: "room_id", Value: id, Operator: dto.FilterOperatorEq}}}
	}

	where, args := byRoom("r1").GetWhereClause()
	assert.Equal(t, "(room_id = :room_id)", where)
	assert.Equal(t, map[string]any{"room_id": "r1"}, args)

	where, args = dto.Filter{Field: "user_id", Value: "u1", Operator: dto.FilterOperatorEq}.GetWhereClause()
	assert.Equal(t, "user_id = :user_id", where)
	assert.Equal(t, map[string]any{"user_id": "u1"}, args)
}

func TestTimeRange_FromRequest(t *testing.T) {
	t.Run("parses a valid window", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rooms/availability?start_time=2025-03-01T09:00:00Z&end_time=2025-03-01T10:00:00Z", nil)

		var window dto.TimeRange
		require.NoError(t, window.FromRequest(req, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat))

		assert.True(t, window.Start.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)))
		assert.True(t, window.End.Equal(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("missing parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rooms/availability?start_time=2025-03-01T09:00:00Z", nil)

		var window dto.TimeRange
		assert.Error(t, window.FromRequest(req, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat))
	})

	t.Run("end equal to start", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rooms/availability?start_time=2025-03-01T09:00:00Z&end_time=2025-03-01T09:00:00Z", nil)

		var window dto.TimeRange
		assert.Error(t, window.FromRequest(req, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat))
	})

	t.Run("malformed value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/rooms/availability?start_time=yesterday&end_time=2025-03-01T09:00:00Z", nil)

		var window dto.TimeRange
		assert.Error(t, window.FromRequest(req, constant.RequestParamStartTime, constant.RequestParamEndTime, constant.DateFormat))
	})
}

func TestTimeRange_FromDayRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/holidays?start_date=2025-12-25&end_date=2025-12-25", nil)

	var days dto.TimeRange
	require.NoError(t, days.FromDayRequest(req, constant.RequestParamStartDate, constant.RequestParamEndDate))
	assert.True(t, days.Start.Equal(days.End))

	req = httptest.NewRequest(http.MethodGet, "/holidays?start_date=2025-12-26&end_date=2025-12-25", nil)
	assert.Error(t, days.FromDayRequest(req, constant.RequestParamStartDate, constant.RequestParamEndDate))
}
