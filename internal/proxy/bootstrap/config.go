// internal/proxy/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/proxy/forward"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for the proxy's environment variables.
const EnvVarPrefix = "STRATAWELL_PROXY"

var appConfigKeys = []config.AppKey{
	{Name: "backend_url", Default: "http://localhost:8080", Desc: "Base URL of the stratawell backend"},
	{Name: "upstream_timeout", Default: "30s", Desc: "Deadline for one forwarded request"},
	{Name: "token_cookie_names", Default: strings.Join(forward.DefaultCookieNames, ","), Desc: "Cookies searched, in order, for a bearer token"},
	{Name: "max_body_bytes", Default: 11 << 20, Desc: "Largest request body forwarded"},
}

// LoadConfig loads WAFFLE core config and the proxy's keys
// (STRATAWELL_PROXY_* environment variables, files, and flags).
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		BackendURL:       strings.TrimSpace(appValues.String("backend_url")),
		UpstreamTimeout:  appValues.Duration("upstream_timeout", 30*time.Second),
		TokenCookieNames: splitList(appValues.String("token_cookie_names")),
		MaxBodyBytes:     int64(appValues.Int("max_body_bytes")),
	}
	return coreCfg, appCfg, nil
}

// ValidateConfig requires an absolute http(s) backend URL.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if _, err := parseBackend(appCfg.BackendURL); err != nil {
		logger.Error("invalid backend URL", zap.String("backend_url", appCfg.BackendURL), zap.Error(err))
		return err
	}
	if appCfg.UpstreamTimeout <= 0 {
		return errors.New("upstream_timeout must be positive")
	}
	return nil
}

func parseBackend(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("backend_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid backend_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("backend_url must be an absolute http(s) URL, got %q", raw)
	}
	return u, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
