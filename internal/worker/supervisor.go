package worker

import (
	"context"
	"sync"
	"time"

	"github.com/smazurov/camrelay/internal/config"
	"github.com/smazurov/camrelay/internal/logging"
	"github.com/smazurov/camrelay/internal/metrics"
	"github.com/smazurov/camrelay/internal/probe"
)

// DefaultPollInterval is how often worker liveness is checked. Exit detection
// latency is bounded by one interval: FFmpeg startup cost dominates recovery
// time, so faster detection buys little.
const DefaultPollInterval = 10 * time.Second

// Options configures a new Supervisor.
type Options struct {
	// Feeds is the static feed list for this run (required, loaded once).
	Feeds []config.Feed

	// Validator gates every launch and relaunch (required).
	Validator probe.Validator

	// Launcher spawns relay workers (required).
	Launcher Launcher

	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	// Logger for supervisor decisions. If nil, uses the supervisor module
	// logger.
	Logger logging.Logger
}

// Supervisor keeps one relay worker alive per configured feed. A single
// goroutine executes validation, launch, polling, and relaunch decisions
// serially; worker activity is observed only through liveness probes.
type Supervisor struct {
	feeds     []config.Feed
	validator probe.Validator
	launcher  Launcher
	registry  *Registry
	interval  time.Duration
	logger    logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.RWMutex
	states   map[string]FeedState
	restarts map[string]int
}

// NewSupervisor creates a supervisor for the given feeds.
func NewSupervisor(opts *Options) *Supervisor {
	if opts == nil || opts.Validator == nil || opts.Launcher == nil {
		panic("Options with Validator and Launcher is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetLogger("supervisor")
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	states := make(map[string]FeedState, len(opts.Feeds))
	for _, feed := range opts.Feeds {
		states[feed.ID] = StateUnvalidated
	}

	return &Supervisor{
		feeds:     opts.Feeds,
		validator: opts.Validator,
		launcher:  opts.Launcher,
		registry:  NewRegistry(logger),
		interval:  interval,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		states:    states,
		restarts:  make(map[string]int),
	}
}

// Registry exposes the worker registry (read access for status reporting).
func (s *Supervisor) Registry() *Registry {
	return s.registry
}

// State returns the feed's current lifecycle state.
func (s *Supervisor) State(id string) FeedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[id]
}

// Restarts returns how many times the feed's worker has been relaunched.
func (s *Supervisor) Restarts(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restarts[id]
}

// Run performs the startup pass, then polls worker liveness until shutdown is
// requested or no active feeds remain. The registry is drained before Run
// returns on the shutdown path.
func (s *Supervisor) Run() {
	defer close(s.done)

	s.startupPass()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if s.registry.Len() == 0 {
			s.logger.Info("No active relays remain, stopping")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Shutdown requested, draining workers")
			s.registry.DrainAll()
			metrics.SetWorkersRunning(0)
			return
		case <-ticker.C:
			s.poll()
		}
	}
}

// Shutdown requests the loop to stop and blocks until the registry has been
// drained and Run has returned.
func (s *Supervisor) Shutdown() {
	s.cancel()
	<-s.done
}

// ShutdownRequested reports whether Shutdown has been called.
func (s *Supervisor) ShutdownRequested() bool {
	return s.ctx.Err() != nil
}

// startupPass validates and launches every configured feed in order. A
// failure for one feed never prevents attempts for the rest.
func (s *Supervisor) startupPass() {
	for _, feed := range s.feeds {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		s.logger.Info("Checking feed", "feed_id", feed.ID)
		s.setState(feed.ID, StateValidating)
		s.tryStart(feed)
	}
	s.logger.Info("Startup pass complete", "active", s.registry.Len(), "configured", len(s.feeds))
}

// tryStart runs validate then launch for a feed, abandoning it on either
// failure. Returns true when the feed reaches StateRunning.
func (s *Supervisor) tryStart(feed config.Feed) bool {
	if !s.validator.Validate(s.ctx, feed.SourceURL) {
		s.logger.Warn("Source validation failed, abandoning feed", "feed_id", feed.ID)
		metrics.ValidationFailed(feed.ID)
		s.abandon(feed.ID)
		return false
	}

	handle, err := s.launcher.Launch(feed.ID, feed.SourceURL, feed.DestinationURL)
	if err != nil {
		s.logger.Error("Failed to launch worker, abandoning feed", "feed_id", feed.ID, "error", err)
		s.abandon(feed.ID)
		return false
	}

	s.registry.Put(feed.ID, handle)
	s.setState(feed.ID, StateRunning)
	metrics.SetWorkersRunning(s.registry.Len())
	return true
}

// poll probes every live worker and handles the ones that exited.
func (s *Supervisor) poll() {
	s.registry.ForEach(func(id string, h Handle) {
		exited, code := h.Exited()
		if !exited {
			return
		}

		s.setState(id, StateExited)
		s.logger.Warn("Worker exited", "feed_id", id, "exit_code", code)

		// Release the dead worker before any relaunch decision.
		s.registry.Remove(id)
		metrics.SetWorkersRunning(s.registry.Len())

		s.relaunch(id)
	})
}

// relaunch revalidates the source (the source itself, not just the worker,
// may have failed) and launches a replacement worker. Either failure
// abandons the feed; there is no backoff or retry schedule.
func (s *Supervisor) relaunch(id string) {
	feed, ok := s.feedByID(id)
	if !ok {
		s.abandon(id)
		return
	}

	s.logger.Info("Attempting to relaunch worker", "feed_id", id)
	s.setState(id, StateRelaunching)

	if !s.tryStart(feed) {
		return
	}

	s.mu.Lock()
	s.restarts[id]++
	count := s.restarts[id]
	s.mu.Unlock()

	metrics.WorkerRestarted(id)
	s.logger.Info("Worker relaunched", "feed_id", id, "restarts", count)
}

func (s *Supervisor) feedByID(id string) (config.Feed, bool) {
	for _, feed := range s.feeds {
		if feed.ID == id {
			return feed, true
		}
	}
	return config.Feed{}, false
}

func (s *Supervisor) setState(id string, state FeedState) {
	s.mu.Lock()
	s.states[id] = state
	s.mu.Unlock()
}

func (s *Supervisor) abandon(id string) {
	s.setState(id, StateAbandoned)
	metrics.FeedAbandoned()
}
