package templates

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/credentials"
)

//go:embed files/*.tmpl
var filesFS embed.FS

// Template names.
const (
	NginxSite    = "nginx.conf.tmpl"
	Caddyfile    = "Caddyfile.tmpl"
	AppConfig    = "wp-config.php.tmpl"
	BootstrapSQL = "bootstrap.sql.tmpl"
	PHPTuning    = "php-tuning.ini.tmpl"
)

// Data is the input every template receives.
type Data struct {
	Config      *config.Config
	Hostname    string
	ServerIP    string
	Credentials *credentials.Credentials
	Salts       credentials.Salts
}

var quoter = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func funcMap() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	// Single-quoted string literal bodies in PHP and MariaDB share the
	// same escaping rules for backslash and quote.
	funcs["phpString"] = quoter.Replace
	funcs["sqlString"] = quoter.Replace
	funcs["sqlIdent"] = func(s string) string { return strings.ReplaceAll(s, "`", "``") }
	return funcs
}

// Render executes the named template with data.
func Render(name string, data Data) ([]byte, error) {
	content, err := filesFS.ReadFile("files/" + name)
	if err != nil {
		return nil, fmt.Errorf("unknown template %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(funcMap()).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// SiteTemplate returns the site template for the configured web server.
func SiteTemplate(cfg *config.Config) string {
	if cfg.WebServer == config.WebServerCaddy {
		return Caddyfile
	}
	return NginxSite
}
