// internal/proxy/bootstrap/deps.go
package bootstrap

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dalemusser/stratawell/internal/proxy/forward"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Deps holds the upstream connection, built in ConnectDB in place of a
// database.
type Deps struct {
	Backend   *url.URL
	Client    *http.Client
	Forwarder *forward.Forwarder
}

// ConnectDB builds the upstream client and probes the backend. An
// unreachable backend is logged, not fatal; it may start later.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	backend, err := parseBackend(appCfg.BackendURL)
	if err != nil {
		return Deps{}, err
	}

	client := &http.Client{
		Timeout: appCfg.UpstreamTimeout,
		// redirects are the browser's business
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	fwd := forward.New(backend, forward.Options{
		Client:      client,
		CookieNames: appCfg.TokenCookieNames,
		MaxBodySize: appCfg.MaxBodyBytes,
	}, logger)

	if err := fwd.Probe(ctx); err != nil {
		logger.Warn("backend not reachable yet", zap.String("backend_url", backend.String()), zap.Error(err))
	} else {
		logger.Info("backend reachable", zap.String("backend_url", backend.String()))
	}

	return Deps{Backend: backend, Client: client, Forwarder: fwd}, nil
}

// Shutdown releases idle upstream connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	if deps.Client != nil {
		deps.Client.CloseIdleConnections()
	}
	return nil
}

// backendPinger lets the health probes report on the backend. The read
// preference is ignored.
type backendPinger struct {
	fwd *forward.Forwarder
}

func (p backendPinger) Ping(ctx context.Context, _ *readpref.ReadPref) error {
	return p.fwd.Probe(ctx)
}
