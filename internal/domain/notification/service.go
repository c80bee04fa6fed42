package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"centavo/internal/domain/connection"
)

// Service bridges connection-failure events into stored notifications. It is
// wired as a subscriber on the connection.failed bus: everything here is
// best-effort, and no error ever propagates back to the emitter.
type Service struct {
	repo      Repository
	messenger Messenger // optional; nil disables push delivery
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, messenger Messenger, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		messenger: messenger,
		log:       log.With().Str("component", "notification_bridge").Logger(),
		now:       time.Now,
	}
}

// HandleConnectionFailed creates one PENDING notification per failing result
// of the event. Store failures are logged per entry and never abort the
// remaining entries.
func (s *Service) HandleConnectionFailed(ctx context.Context, evt connection.FailedEvent) {
	created := 0
	for _, res := range evt.Errors {
		now := s.now()
		n := Notification{
			ID:              uuid.NewString(),
			InstitutionID:   res.InstitutionID,
			InstitutionName: res.InstitutionName,
			Message:         failureMessage(res),
			Status:          StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := s.repo.Create(ctx, n); err != nil {
			s.log.Error().Err(err).
				Str("institution_id", res.InstitutionID).
				Msg("Failed to store connection-failure notification")
			continue
		}
		created++
	}

	s.log.Info().
		Int("failures", len(evt.Errors)).
		Int("created", created).
		Time("checked_at", evt.CheckedAt).
		Msg("Processed connection.failed event")

	if created > 0 {
		s.push(ctx, evt, created)
	}
}

// push sends one best-effort summary push for the whole event.
func (s *Service) push(ctx context.Context, evt connection.FailedEvent, created int) {
	if s.messenger == nil {
		return
	}

	body := fmt.Sprintf("%d institution connection(s) need attention", created)
	data := map[string]string{
		"category":  "connections",
		"failures":  strconv.Itoa(created),
		"checkedAt": evt.CheckedAt.Format(time.RFC3339),
	}
	if err := s.messenger.Send(ctx, "Connection problems detected", body, data); err != nil {
		s.log.Warn().Err(err).Msg("Failed to send connection-failure push")
	}
}

func failureMessage(res connection.CheckResult) string {
	if res.Status == connection.StatusNeedReauth {
		return fmt.Sprintf("%s requires reauthentication", res.InstitutionName)
	}
	return fmt.Sprintf("Connection to %s failed: %s", res.InstitutionName, res.ErrorMessage)
}
