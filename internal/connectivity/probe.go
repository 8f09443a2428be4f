package connectivity

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	apperrors "brt/pkg/errors"
)

const defaultProbePort = "53"

// ProbeConfig holds configuration for reachability probing.
type ProbeConfig struct {
	Targets  []string // host or host:port; port defaults to 53
	Interval time.Duration
	Timeout  time.Duration
	Workers  int64
}

func (c ProbeConfig) withDefaults() ProbeConfig {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 3 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	return c
}

// TargetResult is the outcome of dialling a single target.
type TargetResult struct {
	Target  string
	Address string
	OK      bool
	Latency time.Duration
	Err     error
}

// ProbeResult aggregates one probe round.
type ProbeResult struct {
	Targets   []TargetResult
	CheckedAt time.Time
}

// Reachable reports whether any target answered.
func (r *ProbeResult) Reachable() bool {
	for _, t := range r.Targets {
		if t.OK {
			return true
		}
	}
	return false
}

// Event converts the result into a connectivity event.
func (r *ProbeResult) Event() Event {
	ev := Event{IsConnected: r.Reachable(), CheckedAt: r.CheckedAt}
	for _, t := range r.Targets {
		if t.OK {
			ev.Target = t.Target
			break
		}
	}
	if ev.Target == "" && len(r.Targets) > 0 {
		ev.Target = r.Targets[0].Target
	}
	return ev
}

// probeAddress appends the default port when target has none.
func probeAddress(target string) string {
	target = strings.TrimSpace(target)
	if _, _, err := net.SplitHostPort(target); err == nil {
		return target
	}
	return net.JoinHostPort(strings.Trim(target, "[]"), defaultProbePort)
}

// Probe dials every target concurrently with a TCP handshake.
func Probe(ctx context.Context, cfg ProbeConfig) (*ProbeResult, error) {
	cfg = cfg.withDefaults()

	var targets []string
	for _, t := range cfg.Targets {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return nil, apperrors.ErrNoProbeTargets
	}

	results := make([]TargetResult, len(targets))
	sem := semaphore.NewWeighted(cfg.Workers)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()

			address := probeAddress(target)
			if err := sem.Acquire(ctx, 1); err != nil {
				results[idx] = TargetResult{Target: target, Address: address, Err: err}
				return
			}
			defer sem.Release(1)

			results[idx] = dialTarget(ctx, target, address, cfg.Timeout)
		}(i, target)
	}
	wg.Wait()

	return &ProbeResult{Targets: results, CheckedAt: time.Now().UTC()}, nil
}

func dialTarget(ctx context.Context, target, address string, timeout time.Duration) TargetResult {
	result := TargetResult{Target: target, Address: address}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		result.Err = &apperrors.NetworkError{Address: address, Err: err}
		return result
	}
	result.Latency = time.Since(start)
	conn.Close()

	result.OK = true
	return result
}

// Prober is a Notifier backed by periodic reachability probes. It pushes an
// event to subscribers whenever reachability changes; the first round always
// pushes. A new subscriber immediately receives the last known result.
type Prober struct {
	cfg ProbeConfig
	log *zap.Logger
	hub *ManualNotifier

	// notify orders change pushes with replays to new subscribers.
	notify sync.Mutex

	mu        sync.Mutex
	scheduler gocron.Scheduler
	running   bool
	stopped   bool
	last      *bool
	lastRound *ProbeResult
}

// NewProber creates a prober. Call Start to begin probing.
func NewProber(cfg ProbeConfig, log *zap.Logger) *Prober {
	if log == nil {
		log = zap.NewNop()
	}
	return &Prober{
		cfg: cfg.withDefaults(),
		log: log.Named("prober"),
		hub: NewManualNotifier(),
	}
}

// Subscribe registers cb and, when a round has already completed, delivers
// its result to cb before returning. It fails once the prober has been
// stopped, or when no targets are configured.
func (p *Prober) Subscribe(cb Callback) (Unsubscribe, error) {
	p.notify.Lock()
	defer p.notify.Unlock()

	p.mu.Lock()
	stopped := p.stopped
	last := p.lastRound
	p.mu.Unlock()

	if stopped {
		return nil, apperrors.ErrNotifierUnavailable
	}
	if len(p.cfg.Targets) == 0 {
		return nil, apperrors.ErrNoProbeTargets
	}

	unsub, err := p.hub.Subscribe(cb)
	if err != nil {
		return nil, err
	}
	if last != nil {
		cb(last.Event())
	}
	return unsub, nil
}

// Start schedules probing every Interval, beginning immediately.
func (p *Prober) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return apperrors.ErrProberRunning
	}
	if len(p.cfg.Targets) == 0 {
		return apperrors.ErrNoProbeTargets
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return &apperrors.NotifierError{Source: "prober", Err: err}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(p.cfg.Interval),
		gocron.NewTask(func() {
			p.Check(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		scheduler.Shutdown()
		return &apperrors.NotifierError{Source: "prober", Err: err}
	}

	scheduler.Start()
	p.scheduler = scheduler
	p.running = true
	p.stopped = false

	p.log.Info("probing started",
		zap.Strings("targets", p.cfg.Targets),
		zap.Duration("interval", p.cfg.Interval))
	return nil
}

// Stop shuts the scheduler down. Later subscriptions fail.
func (p *Prober) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return apperrors.ErrProberNotRunning
	}
	p.running = false
	p.stopped = true
	scheduler := p.scheduler
	p.mu.Unlock()

	// Shutdown waits for an in-flight Check, which takes p.mu.
	if err := scheduler.Shutdown(); err != nil {
		return &apperrors.NotifierError{Source: "prober", Err: err}
	}
	return nil
}

// Check runs one probe round and notifies subscribers on change.
func (p *Prober) Check(ctx context.Context) {
	result, err := Probe(ctx, p.cfg)
	if err != nil {
		p.log.Warn("probe round failed", zap.Error(err))
		return
	}

	reachable := result.Reachable()
	for _, t := range result.Targets {
		if t.Err != nil {
			p.log.Debug("target unreachable", zap.String("address", t.Address), zap.Error(t.Err))
		}
	}

	p.notify.Lock()
	defer p.notify.Unlock()

	p.mu.Lock()
	changed := p.last == nil || *p.last != reachable
	p.last = &reachable
	p.lastRound = result
	p.mu.Unlock()

	if changed {
		p.hub.Fire(result.Event())
	}
}

// Last returns the most recent probe round, if any.
func (p *Prober) Last() (*ProbeResult, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRound, p.lastRound != nil
}
