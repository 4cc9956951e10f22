package pinger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/imroc/req/v3"
)

const (
	DefaultInterval = 5 * time.Minute
	DefaultTimeout  = 10 * time.Second
)

// Outcome is the result of a single ping. Err is nil when any response
// arrived, whatever its status code.
type Outcome struct {
	URL        string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// OK reports whether the companion answered.
func (o Outcome) OK() bool {
	return o.Err == nil
}

type Pinger struct {
	target   string
	interval time.Duration
	client   *req.Client
	logger   *slog.Logger
}

// New returns a pinger for target. Non-positive interval or timeout fall back
// to the defaults.
func New(target string, interval, timeout time.Duration, logger *slog.Logger) *Pinger {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := req.C().
		SetTimeout(timeout).
		SetCommonRetryCount(0).
		SetUserAgent("always-on-pinger")

	return &Pinger{
		target:   target,
		interval: interval,
		client:   client,
		logger:   logger.With(slog.String("target", target)),
	}
}

// Interval returns the delay between the end of one cycle and the start of
// the next.
func (p *Pinger) Interval() time.Duration {
	return p.interval
}

// Ping runs one cycle: a GET against the target followed by one log entry.
func (p *Pinger) Ping(ctx context.Context) Outcome {
	start := time.Now()

	resp, err := p.client.R().
		SetContext(ctx).
		Get(p.target)

	outcome := Outcome{
		URL:      p.target,
		Duration: time.Since(start),
		Err:      err,
	}

	if err == nil && resp.Response == nil {
		outcome.Err = errors.New("no response received")
	}

	if outcome.Err != nil {
		p.logger.Error("Error pinging companion",
			slog.String("error", outcome.Err.Error()),
			slog.Duration("duration", outcome.Duration))
		return outcome
	}

	outcome.StatusCode = resp.StatusCode
	p.logger.Info("Successfully pinged companion",
		slog.Int("status", outcome.StatusCode),
		slog.Duration("duration", outcome.Duration))

	return outcome
}

// Run pings immediately, then sleeps interval after each completed cycle. It
// never stops on its own; it returns only when ctx is cancelled.
func (p *Pinger) Run(ctx context.Context) {
	p.logger.Info("Will ping the companion periodically",
		slog.Duration("interval", p.interval))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Pinger stopped")
			return

		case <-timer.C:
			p.Ping(ctx)
			timer.Reset(p.interval)
		}
	}
}
