package provisioning

import (
	"time"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/credentials"
)

// ServiceStatus is the observed state of one managed service.
type ServiceStatus struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	Active bool   `json:"active"`
}

// ProbeResult is the outcome of the HTTP reachability probe.
type ProbeResult struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// DatabaseSummary names the application database.
type DatabaseSummary struct {
	Name string `json:"name"`
	User string `json:"user"`
	Host string `json:"host"`
}

// Summary is the final report of a run.
type Summary struct {
	RunID       string                   `json:"run_id"`
	Target      string                   `json:"target"`
	ServerIP    string                   `json:"server_ip,omitempty"`
	URLs        []string                 `json:"urls"`
	Database    DatabaseSummary          `json:"database"`
	Credentials *credentials.Credentials `json:"credentials,omitempty"`
	Started     []string                 `json:"started_services,omitempty"`
	Services    []ServiceStatus          `json:"services,omitempty"`
	Probe       *ProbeResult             `json:"probe,omitempty"`
	Healthy     bool                     `json:"healthy"`
	Steps       []StepResult             `json:"steps"`
	Files       []string                 `json:"files,omitempty"`
	LogPath     string                   `json:"log_path"`
	DryRun      bool                     `json:"dry_run,omitempty"`
	StartedAt   time.Time                `json:"started_at"`
	Duration    time.Duration            `json:"-"`
	Seconds     float64                  `json:"seconds"`
}

// NewSummary collects the run's results from ctx.
func NewSummary(ctx *Context, startedAt time.Time) *Summary {
	elapsed := time.Since(startedAt)
	s := &Summary{
		RunID:    ctx.RunID,
		ServerIP: ctx.State.ServerIP,
		URLs:     SiteURLs(ctx.Config, ctx.State.ServerIP),
		Database: DatabaseSummary{
			Name: ctx.Config.Database.Name,
			User: ctx.Config.Database.User,
			Host: ctx.Config.Database.Host,
		},
		Credentials: ctx.Credentials,
		Steps:       ctx.State.Steps(),
		Files:       ctx.State.Files(),
		Started:     ctx.State.Services(),
		LogPath:     ctx.Config.Log.Path,
		DryRun:      ctx.DryRun,
		StartedAt:   startedAt,
		Duration:    elapsed,
		Seconds:     elapsed.Round(time.Millisecond).Seconds(),
	}
	if ctx.Runner != nil {
		s.Target = ctx.Runner.Target()
	}
	return s
}

// SetVerification records service and probe results.
func (s *Summary) SetVerification(services []ServiceStatus, probe *ProbeResult) {
	s.Services = services
	s.Probe = probe
	s.Healthy = probe != nil && probe.OK
	for _, svc := range services {
		if !svc.Active {
			s.Healthy = false
		}
	}
}

// Redacted returns a copy without secret values, safe for upload.
func (s *Summary) Redacted() *Summary {
	c := *s
	c.Credentials = s.Credentials.Redacted()
	return &c
}

// SiteURLs returns the URLs the site answers on. Without a domain the site
// is served on the server address.
func SiteURLs(cfg *config.Config, serverIP string) []string {
	var urls []string
	if cfg.Site.Domain != "" {
		scheme := "http"
		if cfg.WebServer == config.WebServerCaddy {
			scheme = "https"
		}
		urls = append(urls, scheme+"://"+cfg.Site.Domain+"/")
	}
	if cfg.Site.Domain == "" && serverIP != "" {
		urls = append(urls, "http://"+serverIP+"/")
	}
	return urls
}
