package clients

import (
	"net/http"

	"github.com/jsamuelsen/quotesync/internal/platform/config"
)

// newTransport builds the pooled transport, filling zero settings with the
// config package defaults.
func newTransport(cfg config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}

	if t.MaxIdleConns <= 0 {
		t.MaxIdleConns = config.DefaultTransportMaxIdleConns
	}

	if t.MaxIdleConnsPerHost <= 0 {
		t.MaxIdleConnsPerHost = config.DefaultTransportMaxIdleConnsPerHost
	}

	if t.IdleConnTimeout <= 0 {
		t.IdleConnTimeout = config.DefaultTransportIdleConnTimeout
	}

	return t
}
