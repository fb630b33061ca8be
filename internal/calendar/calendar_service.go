package calendar

import (
	"context"
	"io"
	"time"

	"go-kintai/internal/attendance"
	"go-kintai/internal/event"
	"go-kintai/internal/holiday"
	"go-kintai/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=calendar_service.go -destination=mock/calendar_service_mock.go -package=mock
type Service interface {
	Events(ctx context.Context) ([]CalendarEvent, error)
	Render(ctx context.Context) ([]FullCalendarEvent, error)
	ExportICS(ctx context.Context, w io.Writer) error
}

type service struct {
	attendance attendance.Repository
	events     event.Repository
	holidays   holiday.Generator
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	attendanceRepo attendance.Repository,
	eventRepo event.Repository,
	holidays holiday.Generator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	if holidays == nil {
		holidays = holiday.NewJapan()
	}
	return &service{
		attendance: attendanceRepo,
		events:     eventRepo,
		holidays:   holidays,
		now:        time.Now,
		logger:     l,
	}
}

// Events reads both tables concurrently and aggregates them.
func (s *service) Events(ctx context.Context) ([]CalendarEvent, error) {
	var (
		records []attendance.Record
		general []event.Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendance.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		general, err = s.events.FindAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("calendar sources unavailable", zap.Error(err))
		return nil, err
	}

	from, to := HolidayWindow(s.now())
	out := Aggregate(records, general, s.holidays.Between(from, to))
	contextutil.GetLogger(ctx, s.logger).Debug("calendar aggregated",
		zap.Int("records", len(records)),
		zap.Int("events", len(general)),
		zap.Int("spans", len(out)),
	)
	return out, nil
}

func (s *service) Render(ctx context.Context) ([]FullCalendarEvent, error) {
	events, err := s.Events(ctx)
	if err != nil {
		return nil, err
	}
	return Render(events), nil
}

func (s *service) ExportICS(ctx context.Context, w io.Writer) error {
	events, err := s.Events(ctx)
	if err != nil {
		return err
	}
	return WriteICS(w, "勤怠カレンダー", events, s.now())
}
