package verify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/platform/system"
	"github.com/imamik/wpstack/internal/provisioning"
)

// Result is the outcome of one verification pass.
type Result struct {
	Services  []provisioning.ServiceStatus `json:"services"`
	Probe     *provisioning.ProbeResult    `json:"probe,omitempty"`
	CheckedAt time.Time                    `json:"checked_at"`
}

// Healthy reports whether all services are active and the probe passed.
func (r *Result) Healthy() bool {
	return r.Err() == nil
}

// Err describes every failed check, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, svc := range r.Services {
		if !svc.Active {
			errs = append(errs, fmt.Errorf("service %s is %s", svc.Name, svc.State))
		}
	}
	switch {
	case r.Probe == nil:
		errs = append(errs, errors.New("http probe did not run"))
	case !r.Probe.OK && r.Probe.Error != "":
		errs = append(errs, fmt.Errorf("http probe %s: %s", r.Probe.URL, r.Probe.Error))
	case !r.Probe.OK:
		errs = append(errs, fmt.Errorf("http probe %s returned %d", r.Probe.URL, r.Probe.StatusCode))
	}
	return errors.Join(errs...)
}

// Verifier runs service and HTTP checks.
type Verifier struct {
	Runner   shell.Runner
	Client   *http.Client
	Services []string
	URL      string
	Observer provisioning.Observer
}

// New returns a Verifier for the services and site described by cfg.
// serverIP is used when no domain is configured.
func New(runner shell.Runner, cfg *config.Config, serverIP string, timeout time.Duration) *Verifier {
	return &Verifier{
		Runner:   runner,
		Client:   NewProbeClient(timeout),
		Services: cfg.ManagedServices(),
		URL:      ProbeURL(cfg, serverIP),
	}
}

// NewProbeClient returns an HTTP client that does not follow redirects.
func NewProbeClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// ProbeURL picks the URL the probe requests. It is always plain http:
// Caddy answers with a redirect before its certificate is issued.
func ProbeURL(cfg *config.Config, serverIP string) string {
	urls := provisioning.SiteURLs(cfg, serverIP)
	if len(urls) == 0 {
		return "http://127.0.0.1/"
	}
	return strings.Replace(urls[0], "https://", "http://", 1)
}

// Check runs one verification pass. Only context cancellation is returned
// as an error; failed checks are reported in the Result.
func (v *Verifier) Check(ctx context.Context) (*Result, error) {
	sd := system.NewSystemd(v.Runner)
	result := &Result{CheckedAt: time.Now()}

	for _, unit := range v.Services {
		state, err := sd.State(ctx, unit)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			state = "unknown"
		}
		status := provisioning.ServiceStatus{Name: unit, State: state, Active: state == "active"}
		result.Services = append(result.Services, status)
		v.emit(provisioning.Event{
			Type:    provisioning.EventServiceStatus,
			Message: "service status",
			Fields:  map[string]string{"service": unit, "state": state},
		})
	}

	probe := Probe(ctx, v.Client, v.URL)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	result.Probe = &probe
	fields := map[string]string{"url": probe.URL, "ok": fmt.Sprint(probe.OK)}
	if probe.StatusCode != 0 {
		fields["status"] = fmt.Sprint(probe.StatusCode)
	}
	v.emit(provisioning.Event{Type: provisioning.EventProbe, Message: "http probe", Fields: fields})

	return result, nil
}

func (v *Verifier) emit(e provisioning.Event) {
	if v.Observer != nil {
		v.Observer.Event(e)
	}
}

// Probe issues one GET against url. 2xx and 3xx count as success;
// redirects are not followed.
func Probe(ctx context.Context, client *http.Client, url string) provisioning.ProbeResult {
	result := provisioning.ProbeResult{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", "wpstack-verify")

	resp, err := client.Do(req)
	if err != nil {
		result.Error = strings.TrimSpace(err.Error())
		return result
	}
	_ = resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.OK = resp.StatusCode >= 200 && resp.StatusCode < 400
	return result
}

// Run performs the post-provisioning verification pass and fails with a
// verification error when any check fails.
func Run(ctx *provisioning.Context) (*Result, error) {
	v := New(ctx.Runner, ctx.Config, ctx.State.ServerIP, ctx.Timeouts.Probe)
	v.Observer = ctx.Observer

	result, err := v.Check(ctx)
	if err != nil {
		return nil, provisioning.NewError(provisioning.KindAborted, "", err)
	}
	if err := result.Err(); err != nil {
		return result, provisioning.NewError(provisioning.KindVerification, "", err)
	}
	return result, nil
}
