package transporthttp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kvoloboi/staticinfo/internal/domain"
	"github.com/kvoloboi/staticinfo/internal/infrastructure/codec"
)

const ReportsPath = "/reports"

type ReportHttpSender struct {
	client *Client
	logger *slog.Logger
}

func NewReportHttpSender(
	baseURL string,
	logger *slog.Logger,
	opts ...Option,
) (*ReportHttpSender, error) {
	if baseURL == "" {
		return nil, errors.New("endpoint is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	client, err := New(
		append(
			[]Option{
				WithBaseURL(baseURL),
			},
			opts...,
		)...,
	)
	if err != nil {
		return nil, err
	}

	return &ReportHttpSender{
		client: client,
		logger: logger,
	}, nil
}

func (s *ReportHttpSender) Send(ctx context.Context, r domain.Record) error {
	body, err := codec.MarshalRecord(r)
	if err != nil {
		return err
	}

	if err := s.client.Post(ctx, ReportsPath, codec.ContentType, body); err != nil {
		s.logger.Error("failed to send report", "err", err)
		return err
	}

	return nil
}

func (s *ReportHttpSender) Close() error {
	return nil
}
