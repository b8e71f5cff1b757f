package embeddings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/common"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// RepairScheduler runs a periodic pass that re-embeds chunks left with zero
// vectors by transient provider failures at ingestion time. Only one repair
// run executes at a time; an overlapping trigger is skipped.
type RepairScheduler struct {
	index        interfaces.IndexService
	config       *common.ProcessingConfig
	logger       arbor.ILogger
	cron         *cron.Cron
	isProcessing bool
	mu           sync.Mutex
}

// NewRepairScheduler creates a new embedding repair scheduler
func NewRepairScheduler(index interfaces.IndexService, config *common.ProcessingConfig, logger arbor.ILogger) *RepairScheduler {
	return &RepairScheduler{
		index:  index,
		config: config,
		logger: logger,
	}
}

// Start registers the cron schedule and begins running repair passes.
// Disabled configuration is not an error; Start just logs and returns.
func (s *RepairScheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info().Msg("Embedding repair pass disabled")
		return nil
	}

	if err := common.ValidateRepairSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid repair schedule %q: %w", s.config.Schedule, err)
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		common.SafeGo(s.logger, "embeddingRepair", func() {
			s.runRepair(context.Background())
		})
	})
	if err != nil {
		return fmt.Errorf("failed to register repair schedule: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", s.config.Schedule).Msg("Embedding repair scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *RepairScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	s.logger.Info().Msg("Embedding repair scheduler stopped")
}

// RunNow triggers an immediate repair pass, bypassing the cron schedule.
// A pass already in progress is not duplicated.
func (s *RepairScheduler) RunNow(ctx context.Context) (int, error) {
	return s.repair(ctx)
}

func (s *RepairScheduler) runRepair(ctx context.Context) {
	repaired, err := s.repair(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Embedding repair pass failed")
		return
	}
	if repaired > 0 {
		s.logger.Info().Int("repaired", repaired).Msg("Embedding repair pass completed")
	}
}

func (s *RepairScheduler) repair(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Debug().Msg("Embedding repair already in progress, skipping run")
		return 0, nil
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	start := time.Now()
	repaired, err := s.index.RepairEmbeddings(ctx)
	if err != nil {
		return repaired, err
	}

	s.logger.Debug().
		Int("repaired", repaired).
		Dur("duration", time.Since(start)).
		Msg("Embedding repair pass finished")

	return repaired, nil
}
