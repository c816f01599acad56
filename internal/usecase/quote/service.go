package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cargo-broker/internal/advisory"
	domainPartner "cargo-broker/internal/domain/partner"
	domainQuote "cargo-broker/internal/domain/quote"
	"cargo-broker/internal/domain/settings"
	"cargo-broker/internal/events"
	"cargo-broker/internal/logger"
	"cargo-broker/internal/pricing"
	"cargo-broker/internal/store"
	appErrors "cargo-broker/pkg/errors"
	"cargo-broker/pkg/utils"

	"go.uber.org/zap"
)

// CargoAnalyst produces the operational note stored with a new request.
type CargoAnalyst interface {
	AnalyzeCargo(ctx context.Context, facts advisory.CargoFacts) string
}

var errFeedbackAlreadyGiven = errors.New("feedback already provided")

// Service implements quote lifecycle use cases
type Service struct {
	requests  domainQuote.Repository
	partners  domainPartner.Repository
	blocked   domainPartner.BlockList
	settings  settings.Repository
	events    events.Emitter
	analyst   CargoAnalyst
	retention time.Duration
	now       func() time.Time
}

// NewService creates a new quote service. analyst may be nil.
func NewService(
	requests domainQuote.Repository,
	partners domainPartner.Repository,
	blocked domainPartner.BlockList,
	settingsRepo settings.Repository,
	emitter events.Emitter,
	analyst CargoAnalyst,
	retention time.Duration,
) *Service {
	if emitter == nil {
		emitter = events.Discard{}
	}
	if retention <= 0 {
		retention = store.DefaultTTL
	}
	return &Service{
		requests:  requests,
		partners:  partners,
		blocked:   blocked,
		settings:  settingsRepo,
		events:    emitter,
		analyst:   analyst,
		retention: retention,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) emit(eventType string, req *domainQuote.Request, payload map[string]any) {
	s.events.Emit(events.Event{
		Type:       eventType,
		RequestID:  req.ID,
		PartnerID:  req.PartnerID,
		Status:     string(req.Status),
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	})
}

// Submit creates a PENDING request for clientID.
func (s *Service) Submit(ctx context.Context, clientID string, req *SubmitRequest) (*domainQuote.Request, error) {
	req.sanitize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}
	if clientID == "" {
		return nil, appErrors.NewValidationError("clientId", "is required")
	}

	// Validate partner
	if _, err := s.partners.GetByID(ctx, req.PartnerID); err != nil {
		if errors.Is(err, domainPartner.ErrPartnerNotFound) {
			return nil, appErrors.NewValidationError("partnerId", "must be a listed partner")
		}
		return nil, err
	}
	blocked, err := s.blocked.IsBlocked(ctx, clientID, req.PartnerID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, appErrors.NewAppError(appErrors.CodePartnerBlocked, "Partner is blocked for this client", domainPartner.ErrPartnerBlocked)
	}

	weight, unit := domainQuote.NormalizeWeight(req.Weight)

	request := &domainQuote.Request{
		ClientID:      clientID,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		PartnerID:     req.PartnerID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		CargoType:     req.CargoType,
		Weight:        weight,
		WeightUnit:    unit,
		Dimensions:    req.Dimensions,
		PreferredDate: req.PreferredDate,
		Status:        domainQuote.StatusPending,
		CreatedAt:     s.now().UTC(),
	}

	if s.analyst != nil {
		request.AINotes = s.analyst.AnalyzeCargo(ctx, advisory.CargoFacts{
			Origin:      request.Origin,
			Destination: request.Destination,
			CargoType:   request.CargoType,
			WeightKg:    req.Weight,
		})
	}

	// IDs are random; retry the rare collision
	for attempt := 0; ; attempt++ {
		request.ID = utils.NewRequestID()
		err = s.requests.Create(ctx, request)
		if err == nil {
			break
		}
		if !errors.Is(err, domainQuote.ErrRequestAlreadyExists) || attempt == 2 {
			return nil, err
		}
	}

	logger.Info("Quote request submitted",
		zap.String("request_id", request.ID),
		zap.String("client_id", clientID),
		zap.String("partner_id", request.PartnerID),
		zap.String("event", "quote_submitted"),
	)
	s.emit(events.TypeQuoteSubmitted, request, map[string]any{
		"origin":      request.Origin,
		"destination": request.Destination,
		"weight":      request.Weight,
		"weightUnit":  string(request.WeightUnit),
	})

	return request, nil
}

// Accept prices a PENDING request and starts tracking.
func (s *Service) Accept(ctx context.Context, requestID string, details *AcceptDetails) (*domainQuote.Request, error) {
	details.sanitize()
	if err := utils.ValidateStruct(details); err != nil {
		return nil, validationError(err)
	}

	defaultPercent, err := s.settings.DefaultFeePercent(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := ResolveBreakdown(details, defaultPercent)
	if err != nil {
		return nil, err
	}
	if err := ValidatePaymentMethod(ctx, s.settings, details.PaymentMethod); err != nil {
		return nil, err
	}

	currency := details.Currency
	if currency == "" {
		currency = pricing.USD.Code
	}
	order := details.DetailsOrder
	if len(order) == 0 {
		order = domainQuote.DefaultDetailsOrder
	}

	updated, err := s.requests.Modify(ctx, requestID, func(r *domainQuote.Request) error {
		next, err := domainQuote.Next(r.Status, domainQuote.ActionAccept)
		if err != nil {
			return err
		}

		acceptedAt := s.now().UTC()
		total, fee, base, percent := breakdown.Total, breakdown.Fee, breakdown.Base, breakdown.Percent

		r.Status = next
		r.QuotedPrice = &total
		r.BrokerFee = &fee
		r.QuotedBasePrice = &base
		r.BrokerFeePercent = &percent
		r.QuotedCurrency = currency
		r.QuotedNotes = details.Notes
		r.QuotedTerms = details.Terms
		r.QuotedLogo = details.Logo
		r.IncludePartnerLogo = details.IncludePartnerLogo
		r.HeaderImage = details.HeaderImage
		r.HeaderMessage = details.HeaderMessage
		r.PaymentMethod = details.PaymentMethod
		r.QuotedDetailsOrder = append([]string(nil), order...)
		r.AcceptedAt = &acceptedAt
		r.TrackingID = utils.NewTrackingID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Quote request accepted",
		zap.String("request_id", updated.ID),
		zap.String("partner_id", updated.PartnerID),
		zap.String("tracking_id", updated.TrackingID),
		zap.String("total", breakdown.Total.String()),
		zap.String("currency", currency),
		zap.String("event", "quote_accepted"),
	)
	s.emit(events.TypeQuoteAccepted, updated, map[string]any{
		"trackingId": updated.TrackingID,
		"total":      breakdown.Total.String(),
		"fee":        breakdown.Fee.String(),
		"currency":   currency,
	})

	return updated, nil
}

// Deny declines a PENDING request.
func (s *Service) Deny(ctx context.Context, requestID string) (*domainQuote.Request, error) {
	return s.transition(ctx, requestID, domainQuote.ActionDeny)
}

// Deliver confirms delivery of an ACCEPTED request.
func (s *Service) Deliver(ctx context.Context, requestID string) (*domainQuote.Request, error) {
	return s.transition(ctx, requestID, domainQuote.ActionDeliver)
}

// Cancel force-closes a request from any non-cancelled state.
func (s *Service) Cancel(ctx context.Context, requestID string) (*domainQuote.Request, error) {
	return s.transition(ctx, requestID, domainQuote.ActionCancel)
}

func (s *Service) transition(ctx context.Context, requestID string, action domainQuote.Action) (*domainQuote.Request, error) {
	var from domainQuote.Status
	updated, err := s.requests.Modify(ctx, requestID, func(r *domainQuote.Request) error {
		from = r.Status
		return applyAction(r, action)
	})
	if err != nil {
		return nil, err
	}

	s.logTransition(updated, from)
	return updated, nil
}

// applyAction moves r along the table for every action that carries no
// commercial data.
func applyAction(r *domainQuote.Request, action domainQuote.Action) error {
	if action == domainQuote.ActionAccept {
		return appErrors.NewAppError(
			appErrors.CodeValidation,
			"Acceptance requires price details",
			domainQuote.ErrAcceptNeedsPrice,
		)
	}

	next, err := domainQuote.Next(r.Status, action)
	if err != nil {
		return err
	}

	r.Status = next
	if next == domainQuote.StatusCancelled {
		// Tracking only exists while a request is accepted or delivered
		r.AcceptedAt = nil
		r.TrackingID = ""
	}
	return nil
}

func (s *Service) logTransition(r *domainQuote.Request, from domainQuote.Status) {
	logger.Info("Quote request status changed",
		zap.String("request_id", r.ID),
		zap.String("partner_id", r.PartnerID),
		zap.String("from_status", string(from)),
		zap.String("to_status", string(r.Status)),
		zap.String("event", "quote_status_changed"),
	)

	var eventType string
	switch r.Status {
	case domainQuote.StatusDenied:
		eventType = events.TypeQuoteDenied
	case domainQuote.StatusDelivered:
		eventType = events.TypeQuoteDelivered
	case domainQuote.StatusCancelled:
		eventType = events.TypeQuoteCancelled
	default:
		return
	}
	s.emit(eventType, r, map[string]any{"from": string(from)})
}

// Feedback attaches a testimonial to the partner of a DELIVERED request.
// A second call for the same request is a no-op and reports applied=false.
func (s *Service) Feedback(ctx context.Context, requestID string, req *FeedbackRequest) (*FeedbackResult, error) {
	req.sanitize()
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	updated, err := s.requests.Modify(ctx, requestID, func(r *domainQuote.Request) error {
		if r.Status != domainQuote.StatusDelivered {
			return appErrors.NewAppError(
				appErrors.CodeInvalidTransition,
				fmt.Sprintf("Cannot leave feedback on a request in status %s", r.Status),
				domainQuote.ErrFeedbackNotAllowed,
			)
		}
		if r.FeedbackProvided {
			return errFeedbackAlreadyGiven
		}

		author := req.Author
		if author == "" {
			author = r.ClientName
		}
		testimonial := domainPartner.Testimonial{Author: author, Text: req.Text, Rating: req.Rating}

		if _, err := s.partners.Modify(ctx, r.PartnerID, func(p *domainPartner.Partner) error {
			p.AddFeedback(testimonial)
			return nil
		}); err != nil {
			return err
		}

		r.FeedbackProvided = true
		return nil
	})
	if errors.Is(err, errFeedbackAlreadyGiven) {
		current, getErr := s.requests.GetByID(ctx, requestID)
		if getErr != nil {
			return nil, getErr
		}
		logger.Debug("Duplicate feedback ignored", zap.String("request_id", requestID))
		return &FeedbackResult{Request: current, Applied: false}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Feedback recorded",
		zap.String("request_id", updated.ID),
		zap.String("partner_id", updated.PartnerID),
		zap.Float64("rating", req.Rating),
		zap.String("event", "feedback_recorded"),
	)
	s.emit(events.TypeFeedbackReceived, updated, map[string]any{"rating": req.Rating})

	return &FeedbackResult{Request: updated, Applied: true}, nil
}

// BulkTransition applies target to every listed request independently.
// Unknown IDs are reported, not failed; a rejected transition skips only
// that request.
func (s *Service) BulkTransition(ctx context.Context, req *BulkStatusRequest) (*BulkResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	action, ok := domainQuote.ActionFor(req.Status)
	if !ok {
		return nil, appErrors.NewValidationError("status", "is not reachable by a bulk update")
	}

	result := &BulkResult{Updated: []string{}, Skipped: []SkippedItem{}, Unknown: []string{}}
	seen := make(map[string]bool, len(req.IDs))

	for _, id := range req.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		var from domainQuote.Status
		updated, err := s.requests.Modify(ctx, id, func(r *domainQuote.Request) error {
			from = r.Status
			return applyAction(r, action)
		})
		switch {
		case errors.Is(err, domainQuote.ErrRequestNotFound):
			result.Unknown = append(result.Unknown, id)
		case err != nil:
			result.Skipped = append(result.Skipped, SkippedItem{ID: id, Reason: skipReason(err)})
		default:
			result.Updated = append(result.Updated, id)
			s.logTransition(updated, from)
		}
	}

	logger.Info("Bulk status update processed",
		zap.String("target_status", string(req.Status)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("unknown", len(result.Unknown)),
		zap.String("event", "quote_bulk_update"),
	)
	return result, nil
}

func skipReason(err error) string {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func (s *Service) Get(ctx context.Context, requestID string) (*domainQuote.Request, error) {
	return s.requests.GetByID(ctx, requestID)
}

// Actions reports what can still be done to a request from its current status.
func (s *Service) Actions(ctx context.Context, requestID string) (*ActionSet, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	actions := domainQuote.AllowedActions(req.Status)
	if actions == nil {
		actions = []domainQuote.Action{}
	}
	return &ActionSet{
		RequestID: req.ID,
		Status:    req.Status,
		Actions:   actions,
		Terminal:  req.Status.IsTerminal(),
	}, nil
}

func (s *Service) List(ctx context.Context, filter *ListFilterRequest) ([]*domainQuote.Request, error) {
	if filter == nil {
		filter = &ListFilterRequest{}
	}
	if err := utils.ValidateStruct(filter); err != nil {
		return nil, validationError(err)
	}
	return s.requests.List(ctx, filter.toFilter())
}

// PartnerQueue splits a partner's requests into pending work and the rest.
func (s *Service) PartnerQueue(ctx context.Context, partnerID string) (*PartnerQueue, error) {
	if _, err := s.partners.GetByID(ctx, partnerID); err != nil {
		return nil, err
	}

	requests, err := s.requests.List(ctx, &domainQuote.Filter{PartnerID: partnerID})
	if err != nil {
		return nil, err
	}

	queue := &PartnerQueue{
		PartnerID: partnerID,
		Pending:   []*domainQuote.Request{},
		Processed: []*domainQuote.Request{},
	}
	for _, r := range requests {
		if r.Status == domainQuote.StatusPending {
			queue.Pending = append(queue.Pending, r)
		} else {
			queue.Processed = append(queue.Processed, r)
		}
	}
	return queue, nil
}

// Statistics aggregates the collection for the admin dashboard.
func (s *Service) Statistics(ctx context.Context) (*domainQuote.Statistics, error) {
	requests, err := s.requests.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	stats := &domainQuote.Statistics{
		TotalRequests: len(requests),
		ByStatus: map[domainQuote.Status]int{
			domainQuote.StatusPending:   0,
			domainQuote.StatusAccepted:  0,
			domainQuote.StatusDenied:    0,
			domainQuote.StatusDelivered: 0,
			domainQuote.StatusCancelled: 0,
		},
	}
	for _, r := range requests {
		stats.ByStatus[r.Status]++
		stats.TotalWeightKg += r.WeightKg()

		if r.Status == domainQuote.StatusAccepted || r.Status == domainQuote.StatusDelivered {
			stats.ActiveTracking++
			if r.BrokerFee != nil {
				stats.PlatformRevenue += *r.BrokerFee
			}
		}
	}
	return stats, nil
}

// PurgeExpired drops requests whose creation time has aged past retention.
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	now := s.now()
	removed, err := s.requests.Retain(ctx, func(r *domainQuote.Request) bool {
		return !store.IsItemExpired(r.CreatedAt, now, s.retention)
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.Info("Expired quote requests purged",
			zap.Int("removed", removed),
			zap.Duration("retention", s.retention),
			zap.String("event", "quote_purged"),
		)
	}
	return removed, nil
}
