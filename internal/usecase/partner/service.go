package partner

import (
	"context"
	"time"

	domainPartner "cargo-broker/internal/domain/partner"
	"cargo-broker/internal/events"
	"cargo-broker/internal/logger"
	appErrors "cargo-broker/pkg/errors"
	"cargo-broker/pkg/utils"

	"go.uber.org/zap"
)

// Service implements partner directory use cases
type Service struct {
	partners domainPartner.Repository
	blocked  domainPartner.BlockList
	events   events.Emitter
	now      func() time.Time
}

// NewService creates a new partner service
func NewService(partners domainPartner.Repository, blocked domainPartner.BlockList, emitter events.Emitter) *Service {
	if emitter == nil {
		emitter = events.Discard{}
	}
	return &Service{
		partners: partners,
		blocked:  blocked,
		events:   emitter,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context) ([]*domainPartner.Partner, error) {
	return s.partners.List(ctx)
}

func (s *Service) Get(ctx context.Context, partnerID string) (*domainPartner.Partner, error) {
	return s.partners.GetByID(ctx, partnerID)
}

// Directory lists every partner with clientID's block state. Blocked
// partners stay visible here so they can be unblocked.
func (s *Service) Directory(ctx context.Context, clientID string) ([]PartnerView, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blockedSet(ctx, clientID)
	if err != nil {
		return nil, err
	}

	views := make([]PartnerView, 0, len(partners))
	for _, p := range partners {
		_, isBlocked := blocked[p.ID]
		views = append(views, PartnerView{Partner: p, Blocked: isBlocked})
	}
	return views, nil
}

// Selectable lists the partners clientID may submit requests to.
func (s *Service) Selectable(ctx context.Context, clientID string) ([]*domainPartner.Partner, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blockedSet(ctx, clientID)
	if err != nil {
		return nil, err
	}

	result := make([]*domainPartner.Partner, 0, len(partners))
	for _, p := range partners {
		if _, ok := blocked[p.ID]; !ok {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *Service) blockedSet(ctx context.Context, clientID string) (map[string]struct{}, error) {
	ids, err := s.blocked.Blocked(ctx, clientID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// SetAvailability overwrites a partner's availability. Any value may follow
// any other; edits are refused while actorID has the partner blocked.
func (s *Service) SetAvailability(ctx context.Context, actorID, partnerID string, req *AvailabilityRequest) (*domainPartner.Partner, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	if actorID != "" {
		blocked, err := s.blocked.IsBlocked(ctx, actorID, partnerID)
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, appErrors.NewAppError(appErrors.CodePartnerBlocked, "Partner is blocked; unblock it before editing", domainPartner.ErrPartnerBlocked)
		}
	}

	var previous domainPartner.Availability
	updated, err := s.partners.Modify(ctx, partnerID, func(p *domainPartner.Partner) error {
		previous = p.Availability
		p.Availability = req.Availability
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Partner availability changed",
		zap.String("partner_id", partnerID),
		zap.String("from", string(previous)),
		zap.String("to", string(updated.Availability)),
		zap.String("event", "partner_availability_changed"),
	)
	s.events.Emit(events.Event{
		Type:       events.TypePartnerUpdated,
		PartnerID:  partnerID,
		Status:     string(updated.Availability),
		OccurredAt: s.now().UTC(),
		Payload:    map[string]any{"from": string(previous)},
	})

	return updated, nil
}

// AddFeedback folds a testimonial into the partner's running rating.
func (s *Service) AddFeedback(ctx context.Context, partnerID string, req *TestimonialRequest) (*domainPartner.Partner, error) {
	req.sanitize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	updated, err := s.partners.Modify(ctx, partnerID, func(p *domainPartner.Partner) error {
		p.AddFeedback(domainPartner.Testimonial{Author: req.Author, Text: req.Text, Rating: req.Rating})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Partner testimonial added",
		zap.String("partner_id", partnerID),
		zap.Float64("rating", updated.Rating),
		zap.Int("total_shipments", updated.HistoricalTotalShipments),
		zap.String("event", "partner_feedback_added"),
	)
	return updated, nil
}

// ToggleBlock flips whether clientID has blocked partnerID. The partner
// record itself is never touched.
func (s *Service) ToggleBlock(ctx context.Context, clientID, partnerID string) (*BlockState, error) {
	if clientID == "" {
		return nil, appErrors.NewValidationError("clientId", "is required")
	}
	if _, err := s.partners.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}

	blocked, err := s.blocked.Toggle(ctx, clientID, partnerID)
	if err != nil {
		return nil, err
	}
	all, err := s.blocked.Blocked(ctx, clientID)
	if err != nil {
		return nil, err
	}

	logger.Info("Partner block toggled",
		zap.String("client_id", clientID),
		zap.String("partner_id", partnerID),
		zap.Bool("blocked", blocked),
		zap.String("event", "partner_block_toggled"),
	)
	return &BlockState{ClientID: clientID, PartnerID: partnerID, Blocked: blocked, All: all}, nil
}

func (s *Service) IsBlocked(ctx context.Context, clientID, partnerID string) (bool, error) {
	return s.blocked.IsBlocked(ctx, clientID, partnerID)
}
