package system

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/cleanstreak/internal/cli"
	"github.com/julianstephens/cleanstreak/internal/keyring"
	"github.com/julianstephens/cleanstreak/internal/storage/postgres"
)

type KeyringCmd struct {
	Set          KeyringSetCmd          `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get          KeyringGetCmd          `cmd:"" help:"Show the stored connection string (password masked)."`
	Delete       KeyringDeleteCmd       `cmd:"" help:"Remove the stored connection string."`
	Status       KeyringStatusCmd       `cmd:"" help:"Check keyring availability."`
	RotateSecret KeyringRotateSecretCmd `cmd:"" name:"rotate-secret" help:"Generate a new API token signing secret."`
}

// KeyringSetCmd stores database connection credentials in the OS keyring
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here
		fmt.Println("⚠️  Warning: Connection string contains embedded credentials.")
		fmt.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}

	fmt.Println("✓ Connection string stored successfully in OS keyring")
	fmt.Println("  You can now use cleanstreak without the --config flag")
	return nil
}

// KeyringGetCmd retrieves database connection credentials from the OS keyring
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'cleanstreak keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	fmt.Println("Connection string retrieved from keyring:")
	fmt.Println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes database connection credentials from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}

	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")

	if _, err := keyring.GetConnectionString(); err == nil {
		fmt.Println("✓ Connection string is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No connection string stored in keyring")
	}
	if _, err := keyring.GetSigningSecret(); err == nil {
		fmt.Println("✓ API signing secret is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No API signing secret stored yet (created on first 'serve')")
	}
	return nil
}

// KeyringRotateSecretCmd replaces the API signing secret. Every issued
// token becomes invalid.
type KeyringRotateSecretCmd struct{}

func (cmd *KeyringRotateSecretCmd) Run(ctx *cli.Context) error {
	secret, err := newSigningSecret()
	if err != nil {
		return err
	}
	if err := keyring.SetSigningSecret(secret); err != nil {
		return err
	}
	fmt.Println("✓ API signing secret rotated; existing tokens are no longer valid")
	return nil
}

func newSigningSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// signingSecret prefers the configured secret, then the keyring, and
// generates and stores one on first use
func signingSecret(ctx *cli.Context) (string, error) {
	if ctx.Config.JWTSecret != "" {
		return ctx.Config.JWTSecret, nil
	}
	secret, err := keyring.GetSigningSecret()
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w (set CLEANSTREAK_JWT_SECRET instead)", err)
	}
	if secret, err = newSigningSecret(); err != nil {
		return "", err
	}
	if err := keyring.SetSigningSecret(secret); err != nil {
		return "", err
	}
	return secret, nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err == nil && u.User != nil {
			if _, ok := u.User.Password(); ok {
				u.User = url.UserPassword(u.User.Username(), "****")
				// url.String escapes the asterisks
				return strings.Replace(u.String(), "%2A%2A%2A%2A", "****", 1)
			}
		}
		return connStr
	}

	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
