package job

import (
	"context"
	"log"
	"time"

	"github.com/ComePicard/Cooloc/internal/config"
	"github.com/ComePicard/Cooloc/internal/invite"
)

// InviteSweeper evicts expired invitation codes. Resolution already drops
// expired entries lazily; the sweep keeps the registry from growing on codes
// nobody ever tries again.
type InviteSweeper struct {
	registry *invite.Registry
	stopCh   chan struct{}
	interval time.Duration
}

func NewInviteSweeper(registry *invite.Registry, cfg *config.Config) *InviteSweeper {
	interval := time.Duration(cfg.Business.InvitationSweepSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &InviteSweeper{
		registry: registry,
		stopCh:   make(chan struct{}),
		interval: interval,
	}
}

func (s *InviteSweeper) Start(ctx context.Context) {
	log.Println("[InviteSweeper] invitation sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[InviteSweeper] context cancelled, exiting")
			return
		case <-s.stopCh:
			log.Println("[InviteSweeper] stopped")
			return
		case <-ticker.C:
			if n := s.registry.Sweep(); n > 0 {
				log.Printf("[InviteSweeper] evicted %d expired invitation codes", n)
			}
		}
	}
}

func (s *InviteSweeper) Stop() {
	close(s.stopCh)
}
