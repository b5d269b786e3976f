package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/quotes/random", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":"Keep going.","author":"Anon","tags":["motivational"]}`))
	})
	mux.HandleFunc("/quotes/quotes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tags") != "motivational" || r.URL.Query().Get("limit") != "2" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"results":[{"content":"One","author":"A"},{"content":"Two","author":"B"}],"count":2,"totalCount":2}`))
	})
	mux.HandleFunc("/facts/random.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"Water is wet.","source":"x","language":"en"}`))
	})
	mux.HandleFunc("/broken/random", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/garbage/random", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientQuotes(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/quotes", srv.URL+"/facts/", time.Second)
	ctx := context.Background()

	q, err := c.RandomQuote(ctx)
	if err != nil {
		t.Fatalf("RandomQuote failed: %v", err)
	}
	if q.Content != "Keep going." || q.Author != "Anon" {
		t.Errorf("unexpected quote: %+v", q)
	}

	list, err := c.QuotesByTag(ctx, "motivational", 2)
	if err != nil {
		t.Fatalf("QuotesByTag failed: %v", err)
	}
	if len(list) != 2 || list[1].Content != "Two" {
		t.Errorf("unexpected quotes: %+v", list)
	}
}

func TestClientFacts(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL+"/quotes", srv.URL+"/facts", time.Second)
	ctx := context.Background()

	tip, err := c.RandomFact(ctx)
	if err != nil {
		t.Fatalf("RandomFact failed: %v", err)
	}
	if tip.Fact != "Water is wet." || tip.Category != "general" {
		t.Errorf("unexpected fact: %+v", tip)
	}

	batch, err := c.FactsBatch(ctx, "health", 3)
	if err != nil {
		t.Fatalf("FactsBatch failed: %v", err)
	}
	if len(batch) != 3 || batch[0].Category != "health" {
		t.Errorf("unexpected batch: %+v", batch)
	}
}

func TestClientErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		base    string
		wantErr string
	}{
		{"bad status", srv.URL + "/broken", "status 503"},
		{"bad body", srv.URL + "/garbage", "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.base, "", time.Second).RandomQuote(ctx)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "", 0)
	if c.quotesURL != "https://api.quotable.io/" || c.factsURL != "https://uselessfacts.jsph.pl/" {
		t.Errorf("unexpected defaults: %s %s", c.quotesURL, c.factsURL)
	}
	if c.http.Timeout != 10*time.Second {
		t.Errorf("timeout = %v", c.http.Timeout)
	}
}
