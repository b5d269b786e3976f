package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func trayProcess(pid int) (ps.Process, error) {
	return &mockProcess{pid: pid, executable: "cleanstreak-tray"}, nil
}

func testNotifier(t *testing.T, find func(int) (ps.Process, error)) (*Notifier, string) {
	t.Helper()
	base := t.TempDir()
	n := New()
	n.configDir = func() (string, error) { return base, nil }
	n.findProcess = find
	n.retryDelay = time.Millisecond
	dir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return n, dir
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", "8080|12345|secret", false},
		{"trailing newline", "8080|12345|secret\n", false},
		{"two parts", "8080|12345", true},
		{"garbage", "invalid", true},
		{"empty secret", "8080|12345|", true},
		{"empty port", "|12345|secret", true},
		{"port out of range", "99999|12345|secret", true},
		{"bad pid", "8080|abc|secret", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lock, err := parseLockfile([]byte(tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLockfile(%q) error = %v, wantErr %v", tt.content, err, tt.wantErr)
			}
			if !tt.wantErr && (lock.port != 8080 || lock.pid != 12345 || lock.secret != "secret") {
				t.Errorf("unexpected lockfile: %+v", lock)
			}
		})
	}
}

func TestTrayConfigDirOverride(t *testing.T) {
	n, dir := testNotifier(t, trayProcess)

	got, err := n.trayConfigDir()
	if err != nil || got != dir {
		t.Fatalf("trayConfigDir = %q, %v; want %q", got, err, dir)
	}

	custom := t.TempDir()
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := n.trayConfigDir(); got != custom {
		t.Errorf("trayConfigDir = %q, want %q", got, custom)
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name    string
		find    func(int) (ps.Process, error)
		wantErr error
	}{
		{"running", trayProcess, nil},
		{"not running", func(int) (ps.Process, error) { return nil, nil }, ErrTrayNotRunning},
		{"lookup error", func(int) (ps.Process, error) { return nil, errors.New("denied") }, ErrTrayNotRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, dir := testNotifier(t, tt.find)
			writeLockfile(t, dir, "8080|42|s3cret")
			_, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("locate error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	n, dir := testNotifier(t, func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	})
	writeLockfile(t, dir, "8080|42|s3cret")
	if _, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName)); err == nil {
		t.Error("expected error for wrong executable")
	}

	n, _ = testNotifier(t, trayProcess)
	if _, err := n.locate(filepath.Join(t.TempDir(), "missing.lock")); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile: got %v", err)
	}
}

func serverPort(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return u.Port()
}

func TestAchievementHookDelivers(t *testing.T) {
	var got []payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Cleanstreak-Secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got = append(got, p)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, dir := testNotifier(t, trayProcess)
	writeLockfile(t, dir, serverPort(t, srv)+"|42|s3cret")

	n.AchievementHook(context.Background(), []models.Achievement{
		{Type: models.AchievementFirstDay, Title: "First Day", Description: "Started your journey"},
		{Type: models.AchievementWeekStreak, Title: "Week Warrior", Description: "7 consecutive days clean"},
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Text != "🏆 First Day: Started your journey" {
		t.Errorf("text = %q", got[0].Text)
	}
	if got[1].DurationMs != constants.NotificationDurationMs {
		t.Errorf("duration = %d", got[1].DurationMs)
	}
}

func TestNotifyRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n, dir := testNotifier(t, trayProcess)
	writeLockfile(t, dir, serverPort(t, srv)+"|42|s3cret")

	if err := n.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}

	calls.Store(-10)
	if err := n.Notify(context.Background(), "hello"); err == nil {
		t.Error("expected failure after exhausting retries")
	}
}
