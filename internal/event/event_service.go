package event

import (
	"context"
	"sort"
	"strings"
	"time"

	eventerrors "go-kintai/internal/event/errors"
	"go-kintai/internal/events"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/tablestore"
	"go-kintai/internal/timerules"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=event_service.go -destination=mock/event_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]EventResponse, error)
	GetByID(ctx context.Context, id string) (EventResponse, error)
	Create(ctx context.Context, req EventRequest) (EventResponse, error)
	Update(ctx context.Context, id string, req EventRequest) (EventResponse, error)
	Delete(ctx context.Context, id string) error
	Purge(ctx context.Context) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("event.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("event.service")
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &service{repo: repo, publisher: publisher, now: time.Now, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) publish(ctx context.Context, eventType, key string) {
	err := s.publisher.PublishLedgerChanged(ctx, events.LedgerChangedEvent{
		EventType:  eventType,
		Table:      string(tablestore.Events),
		Key:        key,
		Rows:       1,
		OccurredAt: s.now().UTC(),
		RequestID:  contextutil.GetRequestID(ctx),
	})
	if err != nil {
		s.log(ctx).Warn("ledger change not published", zap.String("event_type", eventType), zap.Error(err))
	}
}

func validate(id string, req EventRequest) (Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Event{}, eventerrors.ErrTitleRequired
	}
	start, err := time.Parse(DateLayout, req.StartDate)
	if err != nil {
		return Event{}, eventerrors.ErrInvalidDateFormat
	}
	end := start
	if req.EndDate != "" {
		if end, err = time.Parse(DateLayout, req.EndDate); err != nil {
			return Event{}, eventerrors.ErrInvalidDateFormat
		}
	}
	if end.Before(start) {
		return Event{}, eventerrors.ErrInvalidDateRange
	}

	var startTime, endTime string
	if req.StartTime != "" || req.EndTime != "" {
		st, err := timerules.ParseTimeOfDay(req.StartTime)
		if err != nil {
			return Event{}, eventerrors.ErrInvalidTimeFormat
		}
		et, err := timerules.ParseTimeOfDay(req.EndTime)
		if err != nil {
			return Event{}, eventerrors.ErrInvalidTimeFormat
		}
		if start.Equal(end) && et <= st {
			return Event{}, eventerrors.ErrInvalidTimeRange
		}
		startTime, endTime = st.String(), et.String()
	}

	color := req.Color
	if color == "" {
		color = FormColor
	}
	return Event{
		ID:          id,
		StartDate:   start,
		EndDate:     end,
		Title:       title,
		Description: req.Description,
		Color:       color,
		StartTime:   startTime,
		EndTime:     endTime,
	}, nil
}

func (s *service) GetAll(ctx context.Context) ([]EventResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartDate.Before(rows[j].StartDate) })
	res := make([]EventResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EventResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EventResponse{}, err
	}
	if e == nil {
		return EventResponse{}, eventerrors.ErrEventNotFound
	}
	return mapToResponse(*e), nil
}

func (s *service) Create(ctx context.Context, req EventRequest) (EventResponse, error) {
	e, err := validate(uuid.NewString(), req)
	if err != nil {
		s.log(ctx).Warn("create event validation failed", zap.Error(err))
		return EventResponse{}, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.log(ctx).Error("create event failed", zap.Error(err))
		return EventResponse{}, err
	}
	s.publish(ctx, events.EventCreated, e.ID)
	return mapToResponse(e), nil
}

func (s *service) Update(ctx context.Context, id string, req EventRequest) (EventResponse, error) {
	e, err := validate(id, req)
	if err != nil {
		return EventResponse{}, err
	}
	if err := s.repo.Replace(ctx, e); err != nil {
		if tablestore.IsNotFound(err) {
			return EventResponse{}, eventerrors.ErrEventNotFound
		}
		s.log(ctx).Error("update event failed", zap.String("id", id), zap.Error(err))
		return EventResponse{}, err
	}
	s.publish(ctx, events.EventReplaced, id)
	return mapToResponse(e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if tablestore.IsNotFound(err) {
			return eventerrors.ErrEventNotFound
		}
		s.log(ctx).Error("delete event failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.publish(ctx, events.EventDeleted, id)
	return nil
}

func (s *service) Purge(ctx context.Context) error {
	if err := s.repo.Purge(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.LedgerPurged, "")
	s.log(ctx).Warn("events purged")
	return nil
}
