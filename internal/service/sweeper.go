package service

import (
	"context"
	"sync"
	"time"

	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/models"
	"github.com/hacklingo-backend/internal/repository"
	"github.com/rs/zerolog"
)

// SweepObserver receives sweep results, typically the metrics registry
type SweepObserver interface {
	SetDangling(counts map[[2]string]int)
	ObserveSweep(err error, repaired int)
}

// SweepReport summarises one consistency sweep
type SweepReport struct {
	Dangling []models.DanglingReference `json:"dangling"`
	Repaired int                        `json:"repaired"`
	Duration time.Duration              `json:"duration"`
}

// sweeper periodically audits back-reference arrays for ids whose record was
// deleted. Deletes never cascade, so these accumulate; with repair enabled
// they are pruned.
type sweeper struct {
	refs     repository.ReferenceRepository
	observer SweepObserver
	interval time.Duration
	repair   bool
	log      zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func newSweeper(refs repository.ReferenceRepository, observer SweepObserver, cfg config.SweepConfig, log zerolog.Logger) *sweeper {
	return &sweeper{
		refs:     refs,
		observer: observer,
		interval: cfg.Interval,
		repair:   cfg.Repair,
		log:      log.With().Str("service", "sweeper").Logger(),
	}
}

// Start launches the background loop. It returns immediately and is a
// no-op when already running or when the interval is zero.
func (s *sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.interval <= 0 {
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.log.Info().
		Dur("interval", s.interval).
		Bool("repair", s.repair).
		Msg("Consistency sweeper started")

	s.wg.Add(1)
	go s.loop()
}

func (s *sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Consistency sweeper stopping")
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// runOnce sweeps with panic recovery so one bad pass cannot kill the loop
func (s *sweeper) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Sweep panicked - recovered")
		}
	}()

	if _, err := s.Sweep(s.ctx); err != nil && s.ctx.Err() == nil {
		s.log.Error().Err(err).Msg("Consistency sweep failed")
	}
}

// Stop cancels the loop and waits for an in-flight sweep to finish
func (s *sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.wg.Wait()
	s.running = false
	s.log.Info().Msg("Consistency sweeper stopped")
}

// Sweep runs one audit, and prunes what it found when repair is enabled
func (s *sweeper) Sweep(ctx context.Context) (*SweepReport, error) {
	start := time.Now()

	dangling, err := s.refs.FindDangling(ctx)
	if err != nil {
		s.observe(nil, err, 0)
		return nil, err
	}

	report := &SweepReport{Dangling: dangling}
	if s.repair {
		for _, ref := range dangling {
			ok, err := s.refs.Remove(ctx, ref)
			if err != nil {
				report.Duration = time.Since(start)
				s.observe(dangling, err, report.Repaired)
				return report, err
			}
			if ok {
				report.Repaired++
			}
		}
	}
	report.Duration = time.Since(start)

	s.observe(dangling, nil, report.Repaired)

	event := s.log.Info()
	if len(dangling) == 0 {
		event = s.log.Debug()
	}
	event.
		Int("dangling", len(dangling)).
		Int("repaired", report.Repaired).
		Dur("duration", report.Duration).
		Msg("Consistency sweep completed")

	return report, nil
}

func (s *sweeper) observe(dangling []models.DanglingReference, err error, repaired int) {
	if s.observer == nil {
		return
	}
	if err == nil {
		counts := make(map[[2]string]int)
		for _, ref := range dangling {
			counts[[2]string{ref.ParentKind, ref.ChildKind}]++
		}
		// Repaired entries are gone from the store
		if repaired == len(dangling) {
			counts = map[[2]string]int{}
		}
		s.observer.SetDangling(counts)
	}
	s.observer.ObserveSweep(err, repaired)
}
