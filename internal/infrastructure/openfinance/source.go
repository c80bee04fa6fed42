package openfinance

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"centavo/internal/domain/connection"
	"centavo/internal/domain/institution"
)

// TargetSource pairs every registered institution with a probe adapter. It is
// the aggregation seam between the institution registry and the monitoring
// core.
type TargetSource struct {
	institutions institution.Repository
	client       *Client
	log          zerolog.Logger
}

var _ connection.TargetSource = (*TargetSource)(nil)

func NewTargetSource(institutions institution.Repository, client *Client, log zerolog.Logger) *TargetSource {
	return &TargetSource{
		institutions: institutions,
		client:       client,
		log:          log.With().Str("component", "target_source").Logger(),
	}
}

func (s *TargetSource) GetAllTargets(ctx context.Context) ([]connection.Target, error) {
	insts, err := s.institutions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load institutions: %w", err)
	}

	targets := make([]connection.Target, 0, len(insts))
	for _, inst := range insts {
		if inst.ProviderCode == "" {
			s.log.Warn().
				Str("institution_id", inst.ID).
				Str("institution_name", inst.Name).
				Msg("Institution has no provider code, skipping")
			continue
		}
		targets = append(targets, connection.Target{
			Institution: inst,
			Adapter:     NewAdapter(s.client, inst.ProviderCode),
		})
	}
	return targets, nil
}
