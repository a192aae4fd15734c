package credentials

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
)

const (
	// PasswordLength is the length of generated passwords.
	PasswordLength = 32

	// Alphanumeric only, so passwords need no quoting in SQL, PHP or shell.
	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	redacted = "<redacted>"
)

// Credentials are the secrets generated for one run.
type Credentials struct {
	AdminPassword string `json:"admin_password"`
	AppPassword   string `json:"app_password"`
}

// Generate creates fresh random credentials.
func Generate() (*Credentials, error) {
	admin, err := Password(PasswordLength)
	if err != nil {
		return nil, err
	}
	app, err := Password(PasswordLength)
	if err != nil {
		return nil, err
	}
	return &Credentials{AdminPassword: admin, AppPassword: app}, nil
}

// Password returns a random alphanumeric string of length n.
func Password(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("password length must be positive, got %d", n)
	}
	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// Redacted returns a copy with the secret values replaced.
func (c *Credentials) Redacted() *Credentials {
	if c == nil {
		return nil
	}
	return &Credentials{AdminPassword: redacted, AppPassword: redacted}
}

// LogValue implements slog.LogValuer.
func (c *Credentials) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// String keeps secrets out of %v formatting.
func (c *Credentials) String() string { return redacted }
