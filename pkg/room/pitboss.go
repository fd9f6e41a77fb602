package room

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"dealmein-server/pkg/tournament"
)

// PitBoss is the periodic trigger: on every tick it enforces the deadlines
// of each running tournament and pushes fresh views to connected clients
type PitBoss struct {
	director *tournament.Director
	hub      *Hub
	interval time.Duration
	log      logrus.FieldLogger
}

// NewPitBoss returns a pit boss that ticks every interval
func NewPitBoss(director *tournament.Director, hub *Hub, interval time.Duration, logger logrus.FieldLogger) *PitBoss {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if interval <= 0 {
		interval = time.Second
	}

	return &PitBoss{
		director: director,
		hub:      hub,
		interval: interval,
		log:      logger,
	}
}

// Hub returns the hub the pit boss refreshes
func (p *PitBoss) Hub() *Hub {
	return p.hub
}

// StartShift runs the tick loop until ctx is done
func (p *PitBoss) StartShift(ctx context.Context) {
	go p.runLoop(ctx)
}

func (p *PitBoss) runLoop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.WithField("interval", p.interval).Info("pit boss started")
	for {
		select {
		case <-ctx.Done():
			p.log.Info("pit boss stopped")
			return
		case <-ticker.C:
			if _, err := p.Tick(ctx); err != nil {
				p.log.WithError(err).Error("could not list tournaments")
			}
		}
	}
}

// Tick enforces deadlines once for every active tournament. A failure in one
// tournament is logged and does not stop the others.
func (p *PitBoss) Tick(ctx context.Context) ([]*tournament.Report, error) {
	states, err := p.director.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*tournament.Report, 0)
	for _, state := range states {
		if state.Status != tournament.StatusActive {
			continue
		}

		report, err := p.director.EnforceDeadlines(ctx, state.ID)
		if err != nil {
			p.log.WithError(err).WithField("tournamentId", state.ID).Error("could not enforce deadlines")
			continue
		}

		if len(report.Events) > 0 || len(report.Moves) > 0 || len(report.HandsStarted) > 0 {
			p.log.WithFields(logrus.Fields{
				"tournamentId": state.ID,
				"tables":       len(report.Events),
				"moves":        len(report.Moves),
				"handsStarted": len(report.HandsStarted),
			}).Debug("deadlines enforced")
		}

		reports = append(reports, report)
	}

	if p.hub != nil {
		p.hub.RefreshAll(ctx)
	}

	return reports, nil
}

// Director returns the director the pit boss drives
func (p *PitBoss) Director() *tournament.Director {
	return p.director
}
