package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ngrokTunnelsResponse matches the /api/tunnels response from the ngrok local API.
type ngrokTunnelsResponse struct {
	Tunnels []ngrokTunnel `json:"tunnels"`
}

type ngrokTunnel struct {
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

const (
	ngrokAttempts = 10
	ngrokInterval = 3 * time.Second
)

// detectNgrokURL queries the ngrok agent API and returns the public tunnel URL,
// preferring HTTPS. The agent may start after us, so it polls for a while.
func detectNgrokURL(ctx context.Context, ngrokAPIBase string) (string, error) {
	return pollNgrok(ctx, strings.TrimRight(ngrokAPIBase, "/")+"/api/tunnels", ngrokAttempts, ngrokInterval)
}

func pollNgrok(ctx context.Context, url string, attempts int, interval time.Duration) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create ngrok API request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			if attempt < attempts {
				if werr := wait(ctx, interval); werr != nil {
					return "", werr
				}
				continue
			}
			return "", fmt.Errorf("ngrok API not reachable after %d attempts: %w", attempts, err)
		}

		var tunnels ngrokTunnelsResponse
		err = json.NewDecoder(resp.Body).Decode(&tunnels)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("failed to decode ngrok API response: %w", err)
		}

		// Prefer HTTPS tunnels
		for _, t := range tunnels.Tunnels {
			if t.Proto == "https" {
				return t.PublicURL, nil
			}
		}

		// Fallback: any tunnel
		if len(tunnels.Tunnels) > 0 {
			return tunnels.Tunnels[0].PublicURL, nil
		}

		// No tunnels yet, ngrok is starting up
		if attempt < attempts {
			if werr := wait(ctx, interval); werr != nil {
				return "", werr
			}
		}
	}

	return "", fmt.Errorf("ngrok has no active tunnels after %d attempts", attempts)
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
