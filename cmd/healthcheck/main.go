// Command healthcheck checks a running ibank server and exits non-zero unless
// it reports itself healthy. It is meant for container HEALTHCHECK lines.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	httphandler "github.com/ericfisherdev/ibank/internal/adapter/driving/http"
	"github.com/ericfisherdev/ibank/internal/config"
)

const checkTimeout = 2 * time.Second

func main() {
	addr := normalizeAddr(os.Getenv(config.EnvPrefix + "LISTEN_ADDR"))
	if err := check(context.Background(), addr); err != nil {
		fmt.Fprintln(os.Stderr, "unhealthy:", err)
		os.Exit(1)
	}
}

// check asks the health endpoint at addr and requires a 200 whose JSON
// status is "ok".
func check(ctx context.Context, addr string) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("get health from %s: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get health from %s: status %d", addr, resp.StatusCode)
	}

	var health httphandler.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if health.Status != "ok" {
		return fmt.Errorf("server reports status %q", health.Status)
	}
	return nil
}

// normalizeAddr turns the server's listen address into one the check can
// dial. A bind-all or empty host becomes loopback since the check runs next to
// the server.
func normalizeAddr(raw string) string {
	if raw == "" {
		raw = config.DefaultListenAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return config.DefaultListenAddr
	}

	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
