package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path"
	"strconv"
	"sync"
	"time"

	"al.essio.dev/pkg/shellescape"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/wpstack/internal/util/retry"
)

const (
	defaultSSHPort        = 22
	defaultSSHDialTimeout = 10 * time.Second
	defaultSSHAttempts    = 5
)

// SSHConfig holds SSH runner configuration.
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// Sudo prefixes every command with "sudo -n" for non-root logins.
	Sudo bool

	// DialTimeout is the timeout for establishing the TCP connection.
	DialTimeout time.Duration

	// Attempts bounds connection attempts; the host may still be booting.
	Attempts int

	// HostKeyCallback handles host key verification. If nil, the host key
	// is not checked.
	HostKeyCallback ssh.HostKeyCallback
}

// SSH runs commands on a remote host over a single reused connection.
type SSH struct {
	config SSHConfig
	signer ssh.Signer
	logger *slog.Logger

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSH validates cfg and parses the private key. The connection is
// opened lazily on first use.
func NewSSH(cfg SSHConfig, logger *slog.Logger) (*SSH, error) {
	if cfg.Host == "" {
		return nil, errors.New("ssh host cannot be empty")
	}
	if cfg.User == "" {
		return nil, errors.New("ssh user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, errors.New("ssh private key cannot be empty")
	}

	if cfg.Port == 0 {
		cfg.Port = defaultSSHPort
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultSSHDialTimeout
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultSSHAttempts
	}
	if cfg.HostKeyCallback == nil {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // fresh machines have no known host key yet
	}

	signer, err := ssh.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SSH{config: cfg, signer: signer, logger: logger}, nil
}

// Target implements Runner.
func (s *SSH) Target() string {
	return fmt.Sprintf("%s@%s", s.config.User, s.addr())
}

func (s *SSH) addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Close implements Runner.
func (s *SSH) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *SSH) connect(ctx context.Context) (*ssh.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	clientCfg := &ssh.ClientConfig{
		User:            s.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(s.signer)},
		HostKeyCallback: s.config.HostKeyCallback,
		Timeout:         s.config.DialTimeout,
	}

	var client *ssh.Client
	err := retry.Do(ctx, func(ctx context.Context) error {
		dialer := net.Dialer{Timeout: s.config.DialTimeout}
		conn, err := dialer.DialContext(ctx, "tcp", s.addr())
		if err != nil {
			return err
		}
		c, chans, reqs, err := ssh.NewClientConn(conn, s.addr(), clientCfg)
		if err != nil {
			_ = conn.Close()
			var authErr *ssh.ServerAuthError
			if errors.As(err, &authErr) {
				return retry.Fatal(err)
			}
			return err
		}
		client = ssh.NewClient(c, chans, reqs)
		return nil
	},
		retry.WithAttempts(s.config.Attempts),
		retry.WithInitialDelay(2*time.Second),
		retry.WithNotify(func(attempt int, err error, next time.Duration) {
			s.logger.Warn("ssh connection failed, retrying", "target", s.addr(), "attempt", attempt, "retry_in", next, "err", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", s.addr(), err)
	}

	s.client = client
	return client, nil
}

// Run implements Runner.
func (s *SSH) Run(ctx context.Context, cmd Command) (string, error) {
	line := cmd.String()
	if s.config.Sudo {
		line = "sudo -n " + line
	}
	return s.exec(ctx, line, cmd.Stdin)
}

func (s *SSH) exec(ctx context.Context, line string, stdin []byte) (string, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return "", err
	}

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to open ssh session on %s: %w", s.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out
	if stdin != nil {
		session.Stdin = bytes.NewReader(stdin)
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- session.Run(line) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGTERM)
		_ = session.Close()
		// The session may still be copying into out.
		return "", fmt.Errorf("command %q interrupted: %w", line, ctx.Err())
	case err = <-done:
	}

	output := out.String()
	s.logger.Debug("remote command finished", "target", s.config.Host, "cmd", line,
		"duration", time.Since(start).Round(time.Millisecond), "output", lastLines(output, 20))

	if err == nil {
		return output, nil
	}
	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return output, &ExitError{Command: line, ExitCode: exitErr.ExitStatus(), Output: output, Err: err}
	}
	return output, fmt.Errorf("command %q failed on %s: %w", line, s.config.Host, err)
}

// WriteFile implements Runner. Content travels over stdin into a temp
// file next to path which is then renamed into place.
func (s *SSH) WriteFile(ctx context.Context, dst string, data []byte, perm os.FileMode) error {
	tmp := dst + ".wpstack-tmp"
	script := fmt.Sprintf("mkdir -p %s && cat > %s && chmod %04o %s && mv -f %s %s",
		shellescape.Quote(path.Dir(dst)),
		shellescape.Quote(tmp),
		perm.Perm(), shellescape.Quote(tmp),
		shellescape.Quote(tmp), shellescape.Quote(dst),
	)
	line := "sh -c " + shellescape.Quote(script)
	if s.config.Sudo {
		line = "sudo -n " + line
	}
	if _, err := s.exec(ctx, line, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
