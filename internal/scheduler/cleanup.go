// Package scheduler runs periodic maintenance: pruning expired sessions
// and audit events past retention. Expired sessions are also pruned lazily
// at validation time; the scheduled sweep keeps the table from growing
// with sessions nobody presents anymore.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndreev/passport/internal/audit"
	"github.com/ndreev/passport/internal/database/sessions"
)

// CleanupScheduler manages the periodic cleanup job.
type CleanupScheduler struct {
	sessions       *sessions.Repository
	auditService   *audit.Service
	schedule       string
	auditRetention time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.Mutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewCleanupScheduler creates a new scheduler instance.
func NewCleanupScheduler(sessionRepo *sessions.Repository, auditService *audit.Service, schedule string, auditRetention time.Duration) *CleanupScheduler {
	return &CleanupScheduler{
		sessions:       sessionRepo,
		auditService:   auditService,
		schedule:       schedule,
		auditRetention: auditRetention,
		cron:           cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Cleanup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Cleanup scheduler: stopped")
}

// runCleanup performs one sweep.
func (s *CleanupScheduler) runCleanup() {
	pruned, err := s.sessions.DeleteExpired(context.Background(), time.Now())
	if err != nil {
		log.Printf("Cleanup scheduler: failed to prune sessions: %v", err)
	} else if pruned > 0 {
		log.Printf("Cleanup scheduler: pruned %d expired sessions", pruned)
	}

	if s.auditService != nil && s.auditRetention > 0 {
		deleted, err := s.auditService.DeleteOldEvents(s.auditRetention)
		if err != nil {
			log.Printf("Cleanup scheduler: failed to prune audit events: %v", err)
		} else if deleted > 0 {
			log.Printf("Cleanup scheduler: pruned %d audit events", deleted)
		}
	}
}
