// Package tracker is the write path and query facade over habits, entries
// and achievements. Every operation takes the acting user's id explicitly.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/cleanstreak/internal/achievements"
	"github.com/julianstephens/cleanstreak/internal/constants"
	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
	"github.com/julianstephens/cleanstreak/internal/storage"
)

// UnlockHook is told about achievements after they are durable
type UnlockHook func(ctx context.Context, unlocked []models.Achievement)

type Service struct {
	store     storage.Provider
	evaluator *achievements.Evaluator
	now       func() time.Time
	loc       *time.Location
	onUnlock  UnlockHook
	locks     habitLocks
}

type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone that decides calendar-day boundaries
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithUnlockHook(hook UnlockHook) Option {
	return func(s *Service) { s.onUnlock = hook }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.evaluator = achievements.New(store, s.now)
	return s
}

// Today is the current day key in the service's location
func (s *Service) Today() string {
	return models.DayKey(s.now(), s.loc)
}

// ParseDate reads a YYYY-MM-DD day in the service's location, for
// LogRequest.Date
func (s *Service) ParseDate(day string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, day, s.loc)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid date %q (expected YYYY-MM-DD)", day)
	}
	return t, nil
}

// ownedHabit loads a habit and checks it belongs to userID
func (s *Service) ownedHabit(ctx context.Context, habitID, userID string) (models.Habit, error) {
	if userID == "" {
		return models.Habit{}, apperrors.ErrUnauthenticated
	}
	if habitID == "" {
		return models.Habit{}, apperrors.Validation("habit id is required")
	}
	habit, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if habit.UserID != userID {
		return models.Habit{}, apperrors.ErrForbidden
	}
	return habit, nil
}

func (s *Service) notify(ctx context.Context, unlocked []models.Achievement) {
	if s.onUnlock != nil && len(unlocked) > 0 {
		s.onUnlock(ctx, unlocked)
	}
}

// habitLocks hands out one mutex per habit id. An entry lives only while some
// caller holds or waits on it.
type habitLocks struct {
	mu sync.Mutex
	m  map[string]*habitLock
}

type habitLock struct {
	sync.Mutex
	refs int
}

func (l *habitLocks) lock(habitID string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*habitLock)
	}
	hl, ok := l.m[habitID]
	if !ok {
		hl = &habitLock{}
		l.m[habitID] = hl
	}
	hl.refs++
	l.mu.Unlock()

	hl.Lock()
	return func() {
		hl.Unlock()
		l.mu.Lock()
		hl.refs--
		if hl.refs == 0 {
			delete(l.m, habitID)
		}
		l.mu.Unlock()
	}
}

func (l *habitLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
