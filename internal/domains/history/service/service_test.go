package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	otelMocks "unibook/infras/otel/mocks"
	"unibook/internal/domains/history/mocks"
	"unibook/internal/domains/history/model"
	"unibook/internal/domains/history/service"
	"unibook/shared/clock"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func TestLedger_Append(t *testing.T) {
	t.Run("assigns id and action time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockHistory(ctrl)

		repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, entry model.Entry) error {
				assert.NotEmpty(t, entry.ID)
				assert.Equal(t, now, entry.ActionTime)
				assert.Equal(t, "b1", entry.BookingID)
				assert.Equal(t, model.ActionCreated, entry.Action)

				return nil
			})

		ledger := service.New(repo, clock.Fixed{At: now}, otelMocks.NewOtel())

		err := ledger.Append(context.Background(), nil, model.Entry{BookingID: "b1", UserID: "u1", Action: model.ActionCreated})
		require.NoError(t, err)
	})

	t.Run("keeps provided id and time", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockHistory(ctrl)

		at := now.Add(-time.Hour)
		entry := model.Entry{ID: "h1", BookingID: "b1", Action: model.ActionApproved, ActionTime: at}

		repo.EXPECT().InsertTx(gomock.Any(), gomock.Nil(), entry).Return(nil)

		ledger := service.New(repo, clock.Fixed{At: now}, otelMocks.NewOtel())

		require.NoError(t, ledger.Append(context.Background(), nil, entry))
	})

	t.Run("storage fault propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockHistory(ctrl)

		repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		ledger := service.New(repo, clock.Fixed{At: now}, otelMocks.NewOtel())

		err := ledger.Append(context.Background(), nil, model.Entry{BookingID: "b1", Action: model.ActionRejected})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to append history")
	})
}

func TestLedger_Reads(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHistory(ctrl)

	entries := []model.Entry{
		{ID: "h1", BookingID: "b1", Action: model.ActionCreated, ActionTime: now},
		{ID: "h2", BookingID: "b1", Action: model.ActionApproved, ActionTime: now.Add(time.Minute)},
	}

	repo.EXPECT().FindByBooking(gomock.Any(), "b1").Return(entries, nil)
	repo.EXPECT().FindByUser(gomock.Any(), "u1").Return(entries[:1], nil)
	repo.EXPECT().FindByDateRange(gomock.Any(), now, now.Add(time.Hour)).Return(nil, errors.New("timeout"))

	ledger := service.New(repo, clock.Fixed{At: now}, otelMocks.NewOtel())

	got, err := ledger.FindByBooking(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	got, err = ledger.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = ledger.FindByDateRange(context.Background(), now, now.Add(time.Hour))
	assert.Error(t, err)
}
