package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nivaranhq/nivaran/internal/grievances"
)

// System defines the public contract for channel intake.
type System interface {
	Handler() *Handler

	// Process handles one inbound message and produces the reply to send
	// back over the channel.
	Process(ctx context.Context, event Event) (*Reply, error)
}

type service struct {
	grievances grievances.System
	config     *Config
	logger     *slog.Logger
}

// New creates an intake service implementing the System interface.
func New(gs grievances.System, cfg *Config, logger *slog.Logger) System {
	return &service{
		grievances: gs,
		config:     cfg,
		logger:     logger.With("system", "intake"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Process(ctx context.Context, event Event) (*Reply, error) {
	if strings.TrimSpace(event.Sender) == "" {
		return nil, ErrMissingSender
	}
	if strings.TrimSpace(event.Body) == "" {
		return nil, ErrEmptyBody
	}

	if id, ok := ParseStatusQuery(event.Body); ok {
		return s.status(ctx, event, id)
	}

	return s.register(ctx, event)
}

func (s *service) status(ctx context.Context, event Event, id uuid.UUID) (*Reply, error) {
	g, err := s.grievances.Find(ctx, id)
	if err != nil {
		if errors.Is(err, grievances.ErrNotFound) {
			return s.reply(event, fmt.Sprintf("No grievance found with id %s.", id)), nil
		}
		return nil, err
	}

	body := fmt.Sprintf(
		"Grievance %s is %s. Deadline: %s.",
		g.ID, g.Status, formatDeadline(g.Deadline),
	)
	if g.Status == grievances.StatusResolved && g.ResolvedAt != nil {
		body = fmt.Sprintf(
			"Grievance %s was resolved on %s. Reply with RATE %s <1-5> on the web portal to rate the resolution.",
			g.ID, formatDeadline(*g.ResolvedAt), g.ID,
		)
	}

	return s.reply(event, body), nil
}

func (s *service) register(ctx context.Context, event Event) (*Reply, error) {
	politicianID := s.config.Politician()
	if event.PoliticianID != nil && *event.PoliticianID != uuid.Nil {
		politicianID = *event.PoliticianID
	}
	if politicianID == uuid.Nil {
		return nil, ErrUnknownRecipient
	}

	sender := event.Sender
	g, err := s.grievances.Create(ctx, grievances.CreateCommand{
		PoliticianID:  politicianID,
		ReporterPhone: &sender,
		Description:   event.Body,
		Source:        grievances.SourceChannel,
	})
	if err != nil {
		return nil, fmt.Errorf("register grievance: %w", err)
	}

	if image := firstImage(event.Media); image != nil {
		updated, err := s.grievances.AttachReportEvidence(
			ctx, g.ID, g.Version, image.Data, image.ContentType,
		)
		if err != nil {
			// The grievance is already registered; losing the photo only
			// downgrades later verification to after-only.
			s.logger.Warn("report evidence attach failed", "id", g.ID, "error", err)
		} else {
			g = updated
		}
	}

	s.logger.Info("channel grievance registered", "id", g.ID, "category", g.Category)

	body := fmt.Sprintf(
		"Your grievance has been registered.\nID: %s\nCategory: %s\nPriority: %s\nDeadline: %s\nSend STATUS %s to check progress.",
		g.ID, g.Category, g.Priority, formatDeadline(g.Deadline), g.ID,
	)
	return s.reply(event, body), nil
}

func (s *service) reply(event Event, body string) *Reply {
	return &Reply{To: event.Sender, Body: body}
}

func formatDeadline(t time.Time) string {
	return t.UTC().Format("02 Jan 2006 15:04 MST")
}
