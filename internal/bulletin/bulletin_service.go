package bulletin

import (
	"context"
	"sort"
	"strings"
	"time"

	bulletinerrors "go-kintai/internal/bulletin/errors"
	"go-kintai/internal/events"
	"go-kintai/internal/shared/apperror"
	"go-kintai/internal/shared/contextutil"
	"go-kintai/internal/tablestore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=bulletin_service.go -destination=mock/bulletin_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]PostResponse, error)
	Create(ctx context.Context, req PostRequest) (PostResponse, error)
	Update(ctx context.Context, id string, req PostRequest) (PostResponse, error)
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
	l := zap.L().Named("bulletin.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("bulletin.service")
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
		Table:      string(tablestore.BulletinBoard),
		Key:        key,
		Rows:       1,
		OccurredAt: s.now().UTC(),
		RequestID:  contextutil.GetRequestID(ctx),
	})
	if err != nil {
		s.log(ctx).Warn("ledger change not published", zap.String("event_type", eventType), zap.Error(err))
	}
}

func actorFrom(ctx context.Context) (contextutil.Actor, error) {
	actor, ok := contextutil.GetActor(ctx)
	if !ok {
		return contextutil.Actor{}, apperror.ErrUnauthorized
	}
	return actor, nil
}

func canEdit(actor contextutil.Actor, p Post) bool {
	return p.ID != "" && (actor.IsAdmin() || p.Author == actor.Name)
}

func validate(req PostRequest) (string, string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", "", bulletinerrors.ErrTitleRequired
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return "", "", bulletinerrors.ErrContentRequired
	}
	return title, content, nil
}

// GetAll lists posts newest first. Rows without a post_id are shown but
// cannot be edited.
func (s *service) GetAll(ctx context.Context) ([]PostResponse, error) {
	actor, _ := contextutil.GetActor(ctx)
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Timestamp.After(posts[j].Timestamp) })
	res := make([]PostResponse, len(posts))
	for i, p := range posts {
		res[i] = mapToResponse(p, canEdit(actor, p))
	}
	return res, nil
}

func (s *service) Create(ctx context.Context, req PostRequest) (PostResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return PostResponse{}, err
	}
	title, content, err := validate(req)
	if err != nil {
		return PostResponse{}, err
	}
	p := Post{
		ID:        uuid.NewString(),
		Timestamp: s.now().Truncate(time.Second),
		Author:    actor.Name,
		Title:     title,
		Content:   content,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log(ctx).Error("create post failed", zap.Error(err))
		return PostResponse{}, err
	}
	s.publish(ctx, events.PostCreated, p.ID)
	return mapToResponse(p, true), nil
}

func (s *service) owned(ctx context.Context, actor contextutil.Actor, id string) (*Post, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, bulletinerrors.ErrPostNotFound
	}
	if !canEdit(actor, *existing) {
		return nil, bulletinerrors.ErrNotAuthor
	}
	return existing, nil
}

// Update keeps the id, author and original timestamp.
func (s *service) Update(ctx context.Context, id string, req PostRequest) (PostResponse, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return PostResponse{}, err
	}
	title, content, err := validate(req)
	if err != nil {
		return PostResponse{}, err
	}
	existing, err := s.owned(ctx, actor, id)
	if err != nil {
		return PostResponse{}, err
	}
	p := *existing
	p.Title = title
	p.Content = content
	if err := s.repo.Replace(ctx, p); err != nil {
		if tablestore.IsNotFound(err) {
			return PostResponse{}, bulletinerrors.ErrPostNotFound
		}
		s.log(ctx).Error("update post failed", zap.String("id", id), zap.Error(err))
		return PostResponse{}, err
	}
	s.publish(ctx, events.PostReplaced, id)
	return mapToResponse(p, true), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if tablestore.IsNotFound(err) {
			return bulletinerrors.ErrPostNotFound
		}
		return err
	}
	s.publish(ctx, events.PostDeleted, id)
	return nil
}

func (s *service) Purge(ctx context.Context) error {
	if err := s.repo.Purge(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.LedgerPurged, "")
	s.log(ctx).Warn("bulletin board purged")
	return nil
}
