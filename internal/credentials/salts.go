package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/imamik/wpstack/internal/util/retry"
)

// SaltNames lists the keys the application expects, in config order.
var SaltNames = []string{
	"AUTH_KEY",
	"SECURE_AUTH_KEY",
	"LOGGED_IN_KEY",
	"NONCE_KEY",
	"AUTH_SALT",
	"SECURE_AUTH_SALT",
	"LOGGED_IN_SALT",
	"NONCE_SALT",
}

var definePattern = regexp.MustCompile(`define\(\s*'([A-Z_]+)'\s*,\s*'((?:[^'\\]|\\.)*)'\s*\);`)

// Salt is one named key or salt.
type Salt struct {
	Name  string
	Value string
}

// Salts holds all authentication salts in SaltNames order.
type Salts []Salt

// ParseSalts extracts the define() lines returned by the salt endpoint.
// All names in SaltNames must be present.
func ParseSalts(body string) (Salts, error) {
	found := make(map[string]string)
	for _, m := range definePattern.FindAllStringSubmatch(body, -1) {
		found[m[1]] = m[2]
	}

	salts := make(Salts, 0, len(SaltNames))
	var missing []string
	for _, name := range SaltNames {
		v, ok := found[name]
		if !ok || v == "" {
			missing = append(missing, name)
			continue
		}
		salts = append(salts, Salt{Name: name, Value: v})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("salt response is missing %v", missing)
	}
	return salts, nil
}

// SaltFetcher downloads salts from a remote endpoint.
type SaltFetcher struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger

	// Options tune the retry loop.
	Options []retry.Option
}

// NewSaltFetcher returns a fetcher for url with a per-request timeout.
func NewSaltFetcher(url string, timeout time.Duration, logger *slog.Logger, opts ...retry.Option) *SaltFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaltFetcher{
		URL:     url,
		Client:  &http.Client{Timeout: timeout},
		Logger:  logger,
		Options: opts,
	}
}

// Fetch downloads and parses salts, retrying network errors and 5xx
// responses.
func (f *SaltFetcher) Fetch(ctx context.Context) (Salts, error) {
	var salts Salts
	opts := append([]retry.Option{
		retry.WithNotify(func(attempt int, err error, next time.Duration) {
			f.Logger.Warn("salt fetch failed, retrying", "attempt", attempt, "retry_in", next, "error", err)
		}),
	}, f.Options...)

	err := retry.Do(ctx, func(ctx context.Context) error {
		body, err := f.get(ctx)
		if err != nil {
			return err
		}
		parsed, err := ParseSalts(body)
		if err != nil {
			return retry.Fatal(err)
		}
		salts = parsed
		return nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch salts from %s: %w", f.URL, err)
	}
	return salts, nil
}

func (f *SaltFetcher) get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", retry.Fatal(err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return "", retry.Fatal(errors.New("unexpected status " + resp.Status))
	}
	return string(body), nil
}
