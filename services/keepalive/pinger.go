// Package keepalive periodically requests a URL so that hosts which suspend idle processes keep the API awake.
package keepalive

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
)

const requestTimeout = 30 * time.Second

type Pinger struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   core.Logger
}

func NewPinger(conf *core.Config, logger core.Logger) *Pinger {
	return &Pinger{
		url:      conf.KeepAlive.URL,
		interval: conf.KeepAlive.Interval,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   logger,
	}
}

// Run pings every interval until `ctx` is cancelled. Failures are logged and never stop the loop.
func (p *Pinger) Run(ctx context.Context) {
	if p.url == "" || p.interval <= 0 {
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Ping(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("keep-alive ping failed", err)
			}
		}
	}
}

func (p *Pinger) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return errors.Wrap(err, "building keep-alive request")
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "requesting keep-alive url")
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("keep-alive url answered %d", resp.StatusCode)
	}
	return nil
}
