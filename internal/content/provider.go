package content

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
)

// Source is the remote side of the provider
type Source interface {
	RandomQuote(ctx context.Context) (models.Quote, error)
	QuotesByTag(ctx context.Context, tag string, limit int) ([]models.Quote, error)
	RandomFact(ctx context.Context) (models.HealthTip, error)
	FactsBatch(ctx context.Context, category string, n int) ([]models.HealthTip, error)
}

// Settings is where cached content lives
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// ErrNoContent is returned when the remote fetch fails and nothing is cached
var ErrNoContent = errors.New("no content available offline")

type Provider struct {
	source   Source
	settings Settings
	now      func() time.Time
	loc      *time.Location
}

type Option func(*Provider)

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(p *Provider) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func NewProvider(source Source, settings Settings, opts ...Option) *Provider {
	p := &Provider{source: source, settings: settings, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Quote fetches a random quote, falling back to the offline cache
func (p *Provider) Quote(ctx context.Context) (models.Quote, error) {
	q, err := p.source.RandomQuote(ctx)
	if err == nil {
		return q, nil
	}
	return fallback[models.Quote](ctx, p, constants.SettingCachedQuotes, err)
}

func (p *Provider) QuotesByTag(ctx context.Context, tag string, limit int) ([]models.Quote, error) {
	if tag == "" {
		tag = constants.DefaultQuoteTag
	}
	if limit <= 0 {
		limit = 10
	}
	return p.source.QuotesByTag(ctx, tag, limit)
}

// Fact fetches a random fact, falling back to the offline cache
func (p *Provider) Fact(ctx context.Context) (models.HealthTip, error) {
	tip, err := p.source.RandomFact(ctx)
	if err == nil {
		return tip, nil
	}
	return fallback[models.HealthTip](ctx, p, constants.SettingCachedHealthTips, err)
}

func (p *Provider) FactsBatch(ctx context.Context, n int) ([]models.HealthTip, error) {
	if n <= 0 {
		n = constants.DefaultFactBatchSize
	}
	return p.source.FactsBatch(ctx, "health", n)
}

// DailyQuote returns the same quote for the whole calendar day
func (p *Provider) DailyQuote(ctx context.Context) (models.Quote, error) {
	return daily(ctx, p, constants.SettingDailyQuoteDate, constants.SettingDailyQuoteContent,
		constants.SettingCachedQuotes, p.source.RandomQuote)
}

// DailyFact returns the same fact for the whole calendar day
func (p *Provider) DailyFact(ctx context.Context) (models.HealthTip, error) {
	return daily(ctx, p, constants.SettingDailyHealthTipDate, constants.SettingDailyHealthTipContent,
		constants.SettingCachedHealthTips, p.source.RandomFact)
}

// Sync refreshes the offline caches. Failures are logged and skipped.
func (p *Provider) Sync(ctx context.Context) {
	stamp := p.now().UTC().Format(time.RFC3339)

	if quotes, err := p.source.QuotesByTag(ctx, constants.DefaultQuoteTag, 10); err != nil {
		logger.Warn("Failed to refresh quote cache", "error", err)
	} else if len(quotes) > 0 {
		if err := p.save(ctx, constants.SettingCachedQuotes, quotes); err == nil {
			_ = p.settings.SetSetting(ctx, constants.SettingLastQuoteSync, stamp)
		}
	}

	if tips, err := p.source.FactsBatch(ctx, "health", constants.DefaultFactBatchSize); err != nil {
		logger.Warn("Failed to refresh fact cache", "error", err)
	} else if len(tips) > 0 {
		if err := p.save(ctx, constants.SettingCachedHealthTips, tips); err == nil {
			_ = p.settings.SetSetting(ctx, constants.SettingLastHealthTipSync, stamp)
		}
	}
}

// ClearCache drops cached and daily content
func (p *Provider) ClearCache(ctx context.Context) error {
	for _, key := range []string{
		constants.SettingCachedQuotes,
		constants.SettingCachedHealthTips,
		constants.SettingDailyQuoteDate,
		constants.SettingDailyQuoteContent,
		constants.SettingDailyHealthTipDate,
		constants.SettingDailyHealthTipContent,
		constants.SettingLastQuoteSync,
		constants.SettingLastHealthTipSync,
	} {
		if err := p.settings.DeleteSetting(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func daily[T any](ctx context.Context, p *Provider, dateKey, contentKey, cacheKey string, fetch func(context.Context) (T, error)) (T, error) {
	today := models.DayKey(p.now(), p.loc)

	if date, err := p.settings.GetSetting(ctx, dateKey); err == nil && date == today {
		var cached T
		if err := p.load(ctx, contentKey, &cached); err == nil {
			return cached, nil
		}
	}

	item, err := fetch(ctx)
	if err != nil {
		return fallback[T](ctx, p, cacheKey, err)
	}
	if err := p.save(ctx, contentKey, item); err == nil {
		_ = p.settings.SetSetting(ctx, dateKey, today)
	}
	return item, nil
}

func fallback[T any](ctx context.Context, p *Provider, cacheKey string, cause error) (T, error) {
	var items []T
	var zero T
	if err := p.load(ctx, cacheKey, &items); err != nil || len(items) == 0 {
		return zero, errors.Join(ErrNoContent, cause)
	}
	logger.Debug("Serving cached content", "key", cacheKey, "error", cause)
	return items[rand.Intn(len(items))], nil
}

func (p *Provider) load(ctx context.Context, key string, out interface{}) error {
	raw, err := p.settings.GetSetting(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (p *Provider) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := p.settings.SetSetting(ctx, key, string(data)); err != nil {
		logger.Warn("Failed to cache content", "key", key, "error", err)
		return err
	}
	return nil
}
