package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"giftible/internal/apiclient"
	"giftible/internal/domain"
	"giftible/internal/events"
	applog "giftible/internal/log"
	"giftible/internal/telemetry"
)

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}

// ExpiredHook runs once after a session was cleared by a failed refresh.
type ExpiredHook func(ctx context.Context, s *domain.Session, cause error)

type Options struct {
	RefreshTimeout time.Duration
	Metrics        *telemetry.Metrics
	Events         events.Publisher
}

// Manager owns the credentials of every browser session and the rule that a
// session has at most one refresh call in flight.
type Manager struct {
	tracer    trace.Tracer
	store     Store
	refresher Refresher
	timeout   time.Duration
	metrics   *telemetry.Metrics
	events    events.Publisher
	flights   singleflight.Group

	// commitMu orders refresh commits against Destroy so a logout that lands
	// mid-refresh stays logged out.
	commitMu sync.Mutex

	mu    sync.RWMutex
	hooks []ExpiredHook
}

func NewManager(store Store, refresher Refresher, opts Options) *Manager {
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 10 * time.Second
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	return &Manager{
		tracer:    otel.Tracer("giftible/session"),
		store:     store,
		refresher: refresher,
		timeout:   opts.RefreshTimeout,
		metrics:   opts.Metrics,
		events:    opts.Events,
	}
}

func (m *Manager) OnExpired(h ExpiredHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, h)
}

// Create stores a fresh session for a successful login.
func (m *Manager) Create(ctx context.Context, pair domain.TokenPair, user domain.User) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		ID:           uuid.NewString(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user,
		CreatedAt:    now,
		LastSeen:     now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.publish(ctx, events.SessionLogin, s, "")
	return s, nil
}

func (m *Manager) Get(ctx context.Context, sid string) (*domain.Session, error) {
	if sid == "" {
		return nil, ErrNotFound
	}
	return m.store.Get(ctx, sid)
}

// Touch records activity; failures are logged only.
func (m *Manager) Touch(ctx context.Context, sid string) {
	if err := m.store.Touch(ctx, sid); err != nil && !errors.Is(err, ErrNotFound) {
		applog.L().Warn("session.touch.fail", zap.Error(err))
	}
}

// Destroy removes a session on logout.
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()
	s, err := m.store.Get(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, sid); err != nil {
		return err
	}
	m.publish(ctx, events.SessionLogout, s, "")
	return nil
}

// Handle returns the credentials of one session for the API client.
func (m *Manager) Handle(sid string) *Handle {
	return &Handle{m: m, sid: sid}
}

type Handle struct {
	m   *Manager
	sid string
}

var _ apiclient.Credentials = (*Handle)(nil)

func (h *Handle) Token(ctx context.Context) (string, error) {
	s, err := h.m.store.Get(ctx, h.sid)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.AccessToken, nil
}

func (h *Handle) Refresh(ctx context.Context, stale string) (string, error) {
	return h.m.refresh(ctx, h.sid, stale)
}

func (m *Manager) refresh(ctx context.Context, sid, stale string) (string, error) {
	// The flight must outlive the first caller: the others are waiting on it.
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	defer cancel()

	v, err, shared := m.flights.Do(sid, func() (any, error) {
		s, err := m.store.Get(fctx, sid)
		if errors.Is(err, ErrNotFound) {
			return "", apiclient.ErrSessionExpired
		}
		if err != nil {
			return "", fmt.Errorf("load session: %w", err)
		}
		// Another request already rotated the token.
		if s.AccessToken != "" && s.AccessToken != stale {
			return s.AccessToken, nil
		}
		if s.RefreshToken == "" {
			m.expire(fctx, s, errors.New("no refresh token"))
			return "", apiclient.ErrSessionExpired
		}

		sctx, span := m.tracer.Start(fctx, "session.refresh",
			trace.WithAttributes(attribute.String("user.role", string(s.User.Role))))
		pair, err := m.refresher.RefreshToken(sctx, s.RefreshToken)
		m.metrics.Refresh(fctx, err == nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "refresh rejected")
			span.End()
			m.expire(fctx, s, err)
			return "", fmt.Errorf("%w: %v", apiclient.ErrSessionExpired, err)
		}
		span.End()

		s, err = m.commit(fctx, sid, pair)
		if err != nil {
			return "", err
		}
		m.publish(fctx, events.SessionRefreshed, s, "")
		return s.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		applog.L().Debug("session.refresh.shared")
	}
	return v.(string), nil
}

// commit stores the refreshed tokens on the current copy of the session. A
// session removed while the refresh call was out is not brought back.
func (m *Manager) commit(ctx context.Context, sid string, pair domain.TokenPair) (*domain.Session, error) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	s, err := m.store.Get(ctx, sid)
	if errors.Is(err, ErrNotFound) {
		applog.L().Info("session.refresh.discarded", zap.String("reason", "logged_out"))
		return nil, apiclient.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}
	s.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.RefreshToken = pair.RefreshToken
	}
	s.LastSeen = time.Now().UTC()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save refreshed session: %w", err)
	}
	return s, nil
}

// expire clears the session and notifies the hooks. It runs inside the
// refresh flight, so once per failed refresh.
func (m *Manager) expire(ctx context.Context, s *domain.Session, cause error) {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		applog.L().Error("session.clear.fail", zap.Error(err))
	}
	m.metrics.Expired(ctx)
	applog.L().Warn("session.expired", zap.String("user_id", s.User.ID), zap.NamedError("cause", cause))
	m.publish(ctx, events.SessionExpired, s, cause.Error())

	m.mu.RLock()
	hooks := append([]ExpiredHook(nil), m.hooks...)
	m.mu.RUnlock()
	for _, h := range hooks {
		h(ctx, s, cause)
	}
}

func (m *Manager) publish(ctx context.Context, typ string, s *domain.Session, reason string) {
	ev := events.Event{
		Type:   typ,
		UserID: s.User.ID,
		Role:   string(s.User.Role),
		Reason: reason,
		At:     time.Now().UTC(),
	}
	if err := m.events.Publish(ctx, s.User.ID, ev); err != nil {
		applog.L().Warn("events.publish.fail", zap.String("type", typ), zap.Error(err))
	}
}
