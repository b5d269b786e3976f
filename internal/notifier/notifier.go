// Package notifier pushes achievement unlocks to the desktop tray helper.
// Delivery is best effort: a missing tray is not an error for the caller.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/logger"
	"github.com/julianstephens/cleanstreak/internal/models"
)

const trayExecutable = "cleanstreak-tray"

// ErrTrayNotRunning is returned when no live tray process owns the lockfile
var ErrTrayNotRunning = errors.New("cleanstreak-tray is not running")

type Notifier struct {
	configDir   func() (string, error)
	findProcess func(int) (ps.Process, error)
	client      *http.Client
	retries     int
	retryDelay  time.Duration
}

type payload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Notifier {
	return &Notifier{
		configDir:   os.UserConfigDir,
		findProcess: ps.FindProcess,
		client:      &http.Client{Timeout: 2 * time.Second},
		retries:     constants.NotifyMaxRetries,
		retryDelay:  constants.NotifyRetryDelay,
	}
}

// Notify shows text through the tray, retrying transient send failures
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := n.trayConfigDir()
	if err != nil {
		return err
	}
	lock, err := n.locate(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	body := payload{Text: text, DurationMs: constants.NotificationDurationMs}
	for attempt := 1; ; attempt++ {
		err = n.send(ctx, lock, body)
		if err == nil || attempt >= n.retries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.retryDelay):
		}
	}
}

// AchievementHook notifies once per unlocked achievement. Failures are only logged.
func (n *Notifier) AchievementHook(ctx context.Context, unlocked []models.Achievement) {
	for _, a := range unlocked {
		if err := n.Notify(ctx, Message(a)); err != nil {
			logger.Debug("Achievement notification not delivered", "type", a.Type, "error", err)
			if errors.Is(err, ErrTrayNotRunning) {
				return
			}
		}
	}
}

// Message is the notification text for an achievement
func Message(a models.Achievement) string {
	return fmt.Sprintf("🏆 %s: %s", a.Title, a.Description)
}

// trayConfigDir honours a lockfile_dir override in the tray's settings.json
func (n *Notifier) trayConfigDir() (string, error) {
	base, err := n.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(base, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var stored struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if json.Unmarshal(data, &stored) == nil && stored.Settings.LockfileDir != "" {
		return stored.Settings.LockfileDir, nil
	}
	return dir, nil
}

type lockfile struct {
	port   int
	pid    int
	secret string
}

// parseLockfile reads "port|pid|secret"
func parseLockfile(data []byte) (lockfile, error) {
	parts := strings.Split(strings.TrimSpace(string(data)), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lockfile{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockfile{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}
	return lockfile{port: port, pid: pid, secret: secret}, nil
}

func (n *Notifier) locate(path string) (lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}
	lock, err := parseLockfile(data)
	if err != nil {
		return lockfile{}, err
	}

	proc, err := n.findProcess(lock.pid)
	if err != nil || proc == nil {
		return lockfile{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(proc.Executable(), trayExecutable) {
		return lockfile{}, fmt.Errorf("process with PID %d is not %s (is %s)", lock.pid, trayExecutable, proc.Executable())
	}
	return lock, nil
}

func (n *Notifier) send(ctx context.Context, lock lockfile, body payload) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://127.0.0.1:%d", lock.port)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cleanstreak-Secret", lock.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
