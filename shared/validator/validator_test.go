package validator_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"unibook/shared/failure"
	"unibook/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slotRequest struct {
	RoomID    string    `json:"room_id"    validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time"   validate:"required,gtfield=StartTime"`
	Purpose   string    `json:"purpose"    validate:"required,notblank,max=255"`
}

func TestValidateStruct(t *testing.T) {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	valid := func() slotRequest {
		return slotRequest{
			RoomID:    "0f8fad5b-d9cb-469f-a165-70867728950e",
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Purpose:   "Thesis defense",
		}
	}

	tests := []struct {
		name            string
		mutate          func(req *slotRequest)
		expectedMessage string
	}{
		{
			name:   "valid request",
			mutate: func(_ *slotRequest) {},
		},
		{
			name:            "missing room",
			mutate:          func(req *slotRequest) { req.RoomID = "" },
			expectedMessage: "room_id is required",
		},
		{
			name:            "room is not a uuid",
			mutate:          func(req *slotRequest) { req.RoomID = "room-1" },
			expectedMessage: "room_id must be a valid uuid",
		},
		{
			name:            "blank purpose",
			mutate:          func(req *slotRequest) { req.Purpose = "   \t" },
			expectedMessage: "purpose must not be blank",
		},
		{
			name:            "end before start",
			mutate:          func(req *slotRequest) { req.EndTime = start.Add(-time.Minute) },
			expectedMessage: "end_time must be after StartTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.expectedMessage == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.expectedMessage, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "notblank with content", field: " lab ", tag: "notblank"},
		{name: "notblank whitespace", field: "  ", tag: "notblank", expectError: true},
		{name: "notblank on non string", field: 3, tag: "notblank", expectError: true},
		{name: "valid oneof", field: "APPROVED", tag: "oneof=PENDING APPROVED REJECTED CANCELLED"},
		{name: "invalid oneof", field: "DONE", tag: "oneof=PENDING APPROVED REJECTED CANCELLED", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"room_id":"0f8fad5b-d9cb-469f-a165-70867728950e","start_time":"2025-06-02T09:00:00Z","end_time":"2025-06-02T10:00:00Z","purpose":"Seminar"}`,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"room_id":}`,
			expectError: true,
		},
		{
			name:        "malformed time",
			jsonBody:    `{"room_id":"0f8fad5b-d9cb-469f-a165-70867728950e","start_time":"tomorrow","end_time":"2025-06-02T10:00:00Z","purpose":"Seminar"}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data slotRequest

			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)
			if tt.expectError {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
