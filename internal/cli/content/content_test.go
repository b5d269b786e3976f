package content

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/cli/clitest"
	"github.com/julianstephens/cleanstreak/internal/content"
	"github.com/julianstephens/cleanstreak/internal/models"
)

type stubSource struct {
	fail   bool
	quotes int
}

func (s *stubSource) RandomQuote(ctx context.Context) (models.Quote, error) {
	if s.fail {
		return models.Quote{}, errors.New("offline")
	}
	s.quotes++
	return models.Quote{Content: "One day at a time", Author: "Anon"}, nil
}

func (s *stubSource) QuotesByTag(ctx context.Context, tag string, limit int) ([]models.Quote, error) {
	if s.fail {
		return nil, errors.New("offline")
	}
	return []models.Quote{{Content: "Keep going", Author: "Anon"}}, nil
}

func (s *stubSource) RandomFact(ctx context.Context) (models.HealthTip, error) {
	if s.fail {
		return models.HealthTip{}, errors.New("offline")
	}
	return models.HealthTip{Fact: "Water helps", Category: "health"}, nil
}

func (s *stubSource) FactsBatch(ctx context.Context, category string, n int) ([]models.HealthTip, error) {
	if s.fail {
		return nil, errors.New("offline")
	}
	return []models.HealthTip{{Fact: "Sleep helps", Category: category}}, nil
}

func setup(t *testing.T) (*cli.Context, *stubSource) {
	t.Helper()
	ctx := clitest.Setup(t)
	src := &stubSource{}
	ctx.Content = content.NewProvider(src, ctx.Store)
	return ctx, src
}

func TestQuoteCmd(t *testing.T) {
	ctx, src := setup(t)

	tests := []struct {
		name string
		cmd  QuoteCmd
	}{
		{"daily", QuoteCmd{}},
		{"daily again", QuoteCmd{}},
		{"random", QuoteCmd{Random: true}},
		{"tagged", QuoteCmd{Tag: "inspirational", Count: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err != nil {
				t.Errorf("quote failed: %v", err)
			}
		})
	}
	// The daily quote is fetched once, the random one every time
	if src.quotes != 2 {
		t.Errorf("remote quote fetches = %d, want 2", src.quotes)
	}
}

func TestFactCmd(t *testing.T) {
	ctx, _ := setup(t)

	for _, cmd := range []FactCmd{{}, {Random: true}, {Count: 3}} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("fact %+v failed: %v", cmd, err)
		}
	}
}

func TestContentOffline(t *testing.T) {
	ctx, src := setup(t)

	if err := (&ContentSyncCmd{}).Run(ctx); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	src.fail = true

	// Served from the synced cache
	if err := (&QuoteCmd{Random: true}).Run(ctx); err != nil {
		t.Errorf("cached quote failed: %v", err)
	}
	if err := (&FactCmd{Random: true}).Run(ctx); err != nil {
		t.Errorf("cached fact failed: %v", err)
	}

	if err := (&ContentClearCmd{}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := (&QuoteCmd{Random: true}).Run(ctx); !errors.Is(err, content.ErrNoContent) {
		t.Errorf("expected ErrNoContent after clearing the cache, got %v", err)
	}
}
