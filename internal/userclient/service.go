package userclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"studyhub/internal/cli"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 5 * time.Second
)

var _ cli.Driver = (*HTTPClient)(nil)

type Config struct {
	ServerURL   string
	HTTPTimeout time.Duration
}

// Run checks the service is reachable and then hands the terminal to the
// interactive runner, playing against the remote session API.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	if err := client.Health(ctx); err != nil {
		return describeClientError(err, serverURL)
	}

	fmt.Fprintf(out, "studyhub-client\nserver=%s\n\n", serverURL)
	defer func() {
		// Leave no session behind on the server.
		_ = client.Exit(context.WithoutCancel(ctx))
	}()
	return cli.Run(ctx, client, in, out)
}
