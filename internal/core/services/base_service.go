package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Darshanh20/ExpenseManagement/internal/core/domain"
	portssvc "github.com/Darshanh20/ExpenseManagement/internal/core/ports/services"
	"github.com/Darshanh20/ExpenseManagement/internal/middleware"
	"github.com/Darshanh20/ExpenseManagement/internal/platform/metrics"
)

// EventTracker receives product analytics events. *utils.PosthogClientWrapper satisfies it.
type EventTracker interface {
	Track(distinctID string, event string, properties map[string]any)
}

// BaseService provides common functionality for all services
type BaseService struct {
	Policy  portssvc.PolicySvc
	Metrics *metrics.Metrics
	Events  EventTracker
	Clock   func() time.Time
}

// ServiceOption is a functional option applied to the BaseService of every service.
type ServiceOption func(*BaseService)

// WithPolicy overrides the authorization policy.
func WithPolicy(policy portssvc.PolicySvc) ServiceOption {
	return func(s *BaseService) {
		s.Policy = policy
	}
}

// WithMetrics enables workflow counters.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithEventTracker enables product analytics events.
func WithEventTracker(t EventTracker) ServiceOption {
	return func(s *BaseService) {
		s.Events = t
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func newBaseService(options ...ServiceOption) BaseService {
	base := BaseService{}
	for _, option := range options {
		option(&base)
	}
	if base.Policy == nil {
		base.Policy = NewPolicyService()
	}
	return base
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize checks the actor's role against a capability and logs denials.
func (s *BaseService) Authorize(ctx context.Context, actor *domain.User, c domain.Capability) error {
	if err := s.Policy.RequireCapability(actor, c); err != nil {
		s.LogWarn(ctx, "Capability check failed", slog.String("capability", c.String()))
		return err
	}
	return nil
}

// Track forwards an analytics event when a tracker is configured.
func (s *BaseService) Track(distinctID, event string, properties map[string]any) {
	if s.Events != nil {
		s.Events.Track(distinctID, event, properties)
	}
}
