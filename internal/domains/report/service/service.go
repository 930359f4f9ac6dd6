package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"unibook/infras/otel"
	"unibook/infras/s3"
	historyService "unibook/internal/domains/history/service"
	"unibook/internal/domains/report/model"
	"unibook/internal/domains/report/model/dto"
	"unibook/internal/domains/report/repository"
	"unibook/shared/clock"
	"unibook/shared/constant"
	"unibook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const exportFileLayout = "20060102T150405"

// Report serves audit reads over the history ledger and CSV exports of it.
type Report interface {
	HistoryByRange(ctx context.Context, start, end time.Time) (dto.HistoryReportResponse, error)
	HistoryByUser(ctx context.Context, userID string) (dto.HistoryReportResponse, error)
	ExportHistory(ctx context.Context, req dto.ExportRequest, requestedBy string) (dto.ExportResponse, error)
}

type serviceImpl struct {
	repo   repository.Report
	ledger historyService.Ledger
	s3     s3.S3
	clock  clock.Clock
	otel   otel.Otel
}

func New(repo repository.Report, ledger historyService.Ledger, s3 s3.S3, clock clock.Clock, otel otel.Otel) Report {
	return &serviceImpl{
		repo:   repo,
		ledger: ledger,
		s3:     s3,
		clock:  clock,
		otel:   otel,
	}
}

func (s *serviceImpl) HistoryByRange(ctx context.Context, start, end time.Time) (res dto.HistoryReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.HistoryByRange")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entries, err := s.ledger.FindByDateRange(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get history by date range")

		return res, fmt.Errorf("failed to get history by date range: %w", err)
	}

	res.FromModels(entries)

	return res, nil
}

func (s *serviceImpl) HistoryByUser(ctx context.Context, userID string) (res dto.HistoryReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.HistoryByUser")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entries, err := s.ledger.FindByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get history by user")

		return res, fmt.Errorf("failed to get history by user: %w", err)
	}

	res.FromModels(entries)

	return res, nil
}

func (s *serviceImpl) ExportHistory(ctx context.Context, req dto.ExportRequest, requestedBy string) (res dto.ExportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.ExportHistory")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	start, end, err := req.Window()
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	rows, err := s.repo.HistoryRows(ctx, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to get history rows")

		return res, fmt.Errorf("failed to get history rows: %w", err)
	}

	data, err := encodeCSV(rows)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode history report")

		return res, fmt.Errorf("failed to encode history report: %w", err)
	}

	fileName := fmt.Sprintf("booking-history_%s_%s_%s.csv",
		timezone.Format(start, exportFileLayout),
		timezone.Format(end, exportFileLayout),
		timezone.Format(s.clock.Now(), exportFileLayout),
	)

	url, err := s.s3.UploadBytes(ctx, model.ExportDirectory, fileName, constant.ContentTypeCSV, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload history report")

		return res, fmt.Errorf("failed to upload history report: %w", err)
	}

	log.Info().Str("requested_by", requestedBy).Str("file", fileName).Int("rows", len(rows)).Msg("history report exported")

	res.URL = url
	res.FileName = fileName
	res.Rows = len(rows)

	return res, nil
}

func encodeCSV(rows []model.Row) ([]byte, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	if err := writer.Write(model.CSVHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	format := func(t time.Time) string { return timezone.Format(t, constant.CSVTimeFormat) }

	for _, row := range rows {
		if err := writer.Write(row.Record(format)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
