package consolehttp

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/salabelleza/agenda-console/internal/upstream"
)

// NewProxy builds the passthrough to the backend for plain resource CRUD that
// needs no console-side logic. It strips the console prefix, injects the
// session bearer token, and propagates traces on the outbound hop.
func NewProxy(backend *url.URL, prefix string, tokens upstream.TokenSource, logger *slog.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(backend)
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, prefix)
			if !strings.HasPrefix(pr.Out.URL.Path, "/") {
				pr.Out.URL.Path = "/" + pr.Out.URL.Path
			}
			pr.Out.Host = backend.Host
			pr.SetXForwarded()
			if token := tokens.Token(); token != "" {
				pr.Out.Header.Set("Authorization", "Bearer "+token)
			}
		},
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy upstream failure", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusBadGateway, errorResponse{
				Error: "Cannot reach the server. Check that the backend is running.",
			})
		},
	}
	return proxy
}
