package i18n

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrReloaderStarted is returned by Start when the reloader already runs.
var ErrReloaderStarted = errors.New("i18n: reloader already started")

// Reloader reloads a MessagesAPI on a cron schedule.
type Reloader struct {
	api     *MessagesAPI
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	started bool
}

// NewReloader schedules api.Reload with a standard five-field cron expression,
// e.g. "*/5 * * * *". Each run is bounded by timeout (no bound when zero).
func NewReloader(api *MessagesAPI, schedule string, timeout time.Duration) (*Reloader, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("i18n: invalid reload schedule %q: %w", schedule, err)
	}

	r := &Reloader{
		api:     api,
		cron:    cron.New(cron.WithParser(parser)),
		logger:  api.logger,
		timeout: timeout,
	}
	r.cron.Schedule(sched, cron.FuncJob(r.run))
	return r, nil
}

func (r *Reloader) run() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// Failures are logged and counted by Reload; the old catalog stays active.
	if err := r.api.Reload(ctx); err == nil {
		r.logger.InfoContext(ctx, "message catalog reloaded")
	}
}

// Start begins running scheduled reloads in the background.
func (r *Reloader) Start(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrReloaderStarted
	}
	r.cron.Start()
	r.started = true
	return nil
}

// Stop stops scheduling and waits for a running reload or ctx expiry.
func (r *Reloader) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	r.mu.Unlock()

	select {
	case <-r.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next scheduled reload time, or zero when not started.
func (r *Reloader) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
