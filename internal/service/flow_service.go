package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/compliance"
	"github.com/spec-kit/support-engine/internal/dispatch"
	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/events"
	"github.com/spec-kit/support-engine/internal/extractor"
	"github.com/spec-kit/support-engine/internal/faq"
	"github.com/spec-kit/support-engine/internal/observability"
	"github.com/spec-kit/support-engine/internal/render"
	"github.com/spec-kit/support-engine/internal/repository"
)

// fallbackReply is sent when the intent cannot be mapped to any rule.
const fallbackReply = "I'm sorry, I didn't understand that request. Could you rephrase?"

// IntentClassifier predicts an intent label with a confidence score.
type IntentClassifier interface {
	Classify(ctx context.Context, text string) (string, float64)
}

// MoodClassifier predicts the customer's mood.
type MoodClassifier interface {
	Classify(ctx context.Context, text string) domain.Mood
}

// ActionDispatcher executes the action configured for a complete ticket.
type ActionDispatcher interface {
	Dispatch(intent string, entities map[string]string) dispatch.Result
}

// FlowDependencies bundles collaborators for the flow service.
type FlowDependencies struct {
	Store        repository.TicketStore
	Intents      IntentClassifier
	Moods        MoodClassifier
	FAQ          faq.Matcher
	Dispatcher   ActionDispatcher
	Renderer     *render.Renderer
	Reviewer     compliance.Reviewer
	Rules        map[string]domain.IntentRule
	Events       events.Dispatcher
	Refs         *domain.ReferenceData
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	FAQThreshold float64
}

// FlowService owns the per-turn conversation logic: FAQ fast path,
// ticket lifecycle, slot filling, action dispatch, and response
// drafting. It is the engine's single entry point.
type FlowService struct {
	store        repository.TicketStore
	intents      IntentClassifier
	moods        MoodClassifier
	faq          faq.Matcher
	dispatcher   ActionDispatcher
	renderer     *render.Renderer
	reviewer     compliance.Reviewer
	rules        map[string]domain.IntentRule
	events       events.Dispatcher
	refs         *domain.ReferenceData
	logger       *zap.Logger
	metrics      *observability.Metrics
	faqThreshold float64

	// One logical lock per conversation: turns for the same user are
	// serialized, turns for different users run in parallel.
	userLocks sync.Map
}

// NewFlowService constructs the service.
func NewFlowService(deps FlowDependencies) *FlowService {
	reviewer := deps.Reviewer
	if reviewer == nil {
		reviewer = compliance.PassthroughReviewer{}
	}
	return &FlowService{
		store:        deps.Store,
		intents:      deps.Intents,
		moods:        deps.Moods,
		faq:          deps.FAQ,
		dispatcher:   deps.Dispatcher,
		renderer:     deps.Renderer,
		reviewer:     reviewer,
		rules:        deps.Rules,
		events:       deps.Events,
		refs:         deps.Refs,
		logger:       deps.Logger,
		metrics:      deps.Metrics,
		faqThreshold: deps.FAQThreshold,
	}
}

// ProcessMessage runs one conversation turn and returns the reply text.
// It is the boundary that converts every underlying fault into a
// user-visible outcome; it never returns an error to the transport.
func (s *FlowService) ProcessMessage(ctx context.Context, userID, text string) string {
	start := time.Now()

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	draft, mood, outcome := s.handleTurn(ctx, userID, text)
	s.metrics.RecordTurn(outcome, time.Since(start))

	// Final quality gate; the reviewer fails open so an outage here
	// never blocks delivery.
	return s.reviewer.Review(ctx, draft, mood)
}

func (s *FlowService) lockFor(userID string) *sync.Mutex {
	actual, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// handleTurn produces the draft reply, the mood used for compliance
// review, and a metrics outcome label.
func (s *FlowService) handleTurn(ctx context.Context, userID, text string) (string, domain.Mood, string) {
	// Step 1: FAQ fast path. A confident hit answers verbatim and ends
	// the turn without reading or mutating any ticket state.
	if s.faq != nil {
		if match, ok := s.faq.BestMatch(ctx, text, s.faqThreshold); ok {
			s.logger.Info("faq fast path",
				zap.String("user_id", userID),
				zap.String("entry", match.ID),
				zap.Float64("score", match.Score))
			s.metrics.RecordFAQHit()
			return match.Answer, s.peekMood(ctx, userID), "faq"
		}
	}

	// Step 2: ticket resolution.
	ticket, err := s.store.Get(ctx, userID)
	if err != nil {
		s.logger.Warn("ticket load failed; starting fresh", zap.String("user_id", userID), zap.Error(err))
		ticket = nil
	}

	if ticket != nil {
		ticket.AddMessage(domain.SenderUser, text)
		// Mood is re-evaluated every turn; severity stays frozen at its
		// creation value.
		ticket.Mood = s.moods.Classify(ctx, text)
	} else {
		intent, confidence := s.intents.Classify(ctx, text)
		mood := s.moods.Classify(ctx, text)
		s.logger.Info("classified new conversation",
			zap.String("user_id", userID),
			zap.String("intent", intent),
			zap.Float64("confidence", confidence),
			zap.String("mood", string(mood)))

		if intent == domain.IntentGeneralFAQ || intent == domain.IntentUnknown {
			return s.createHandoff(ctx, userID, text, mood)
		}

		rule, ok := s.rules[intent]
		if !ok {
			return fallbackReply, mood, "unrecognized"
		}

		ticket = domain.NewTicket(userID, intent, mood, nil, rule.RequiredEntities)
		ticket.AddMessage(domain.SenderUser, text)
		if err := s.store.Put(ctx, ticket); err != nil {
			s.logger.Error("ticket create failed", zap.String("user_id", userID), zap.Error(err))
		}
		s.metrics.RecordTicketCreated()
		s.publish(ctx, events.Event{
			Type:     events.EventTicketCreated,
			TicketID: ticket.ID,
			UserID:   userID,
			Payload: events.TicketCreatedPayload{
				Intent:   ticket.Intent,
				Mood:     ticket.Mood,
				Severity: ticket.Severity,
			},
		})
	}

	// Step 3: slot filling against the full turn text, restricted to
	// the slots still missing.
	if !ticket.Complete() {
		found := extractor.Extract(text, ticket.MissingFields, s.refs)
		if len(found) > 0 {
			ticket.MergeEntities(found)
		}
		if err := s.store.Put(ctx, ticket); err != nil {
			s.logger.Error("ticket update failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	// Step 4: dispatch or re-prompt.
	if ticket.Complete() {
		return s.dispatchAndRespond(ctx, ticket)
	}
	return s.requestMissingInfo(ctx, ticket)
}

// createHandoff opens an operator-review ticket for unrecognized or
// general-FAQ traffic. The ticket stays open; only an operator (or the
// stale sweep) closes it.
func (s *FlowService) createHandoff(ctx context.Context, userID, text string, mood domain.Mood) (string, domain.Mood, string) {
	ticket := domain.NewTicket(userID, domain.IntentHumanHandoff, mood, map[string]string{domain.SlotQuery: text}, nil)
	ticket.AddMessage(domain.SenderUser, text)

	draft := s.renderer.Render("handoff_ack", map[string]any{
		"user_name": displayName(userID),
		"mood":      ticket.Mood,
		"ticket_id": ticket.ID,
		"severity":  ticket.Severity,
	})
	ticket.AddMessage(domain.SenderBot, draft)

	if err := s.store.Put(ctx, ticket); err != nil {
		s.logger.Error("handoff ticket create failed", zap.String("user_id", userID), zap.Error(err))
	}
	s.metrics.RecordTicketCreated()
	s.publish(ctx, events.Event{
		Type:     events.EventTicketHandoff,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload: events.TicketHandoffPayload{
			Query:    text,
			Severity: ticket.Severity,
		},
	})
	return draft, mood, "handoff"
}

// dispatchAndRespond executes the ticket's action and maps the outcome
// to a response. Terminal outcomes (success, not_found) close the
// ticket; error and invalid_format leave it in place.
func (s *FlowService) dispatchAndRespond(ctx context.Context, ticket *domain.Ticket) (string, domain.Mood, string) {
	result := s.safeDispatch(ticket.Intent, ticket.Entities)
	tmplCtx := s.templateContext(ticket, result)

	switch result.State {
	case dispatch.StateError:
		draft := s.renderer.Render("system_error", tmplCtx)
		ticket.AddMessage(domain.SenderBot, draft)
		s.logger.Error("dispatch error; ticket left for inspection",
			zap.String("ticket_id", ticket.ID),
			zap.String("intent", ticket.Intent))
		return draft, ticket.Mood, "error"

	case dispatch.StateInvalidFormat:
		field := "value"
		if len(result.Missing) > 0 {
			field = result.Missing[0]
		}
		tmplCtx["field"] = field
		draft := s.renderer.Render("invalid_format", tmplCtx)
		ticket.AddMessage(domain.SenderBot, draft)
		if err := s.store.Put(ctx, ticket); err != nil {
			s.logger.Error("ticket update failed", zap.String("user_id", ticket.UserID), zap.Error(err))
		}
		return draft, ticket.Mood, "invalid_format"

	default:
		// success and not_found are both terminal: the ticket closes
		// and a retry starts a fresh conversation.
		name := ticket.Intent + "_" + string(result.State)
		if !s.renderer.Has(name) {
			name = "generic_" + string(result.State)
		}
		draft := s.renderer.Render(name, tmplCtx)

		ticket.Status = domain.TicketStatusResolved
		if err := s.store.Delete(ctx, ticket.UserID); err != nil {
			s.logger.Error("ticket close failed", zap.String("user_id", ticket.UserID), zap.Error(err))
		}
		s.metrics.RecordTicketClosed()
		s.publish(ctx, events.Event{
			Type:     events.EventTicketClosed,
			TicketID: ticket.ID,
			UserID:   ticket.UserID,
			Payload:  events.TicketClosedPayload{Outcome: string(result.State)},
		})
		return draft, ticket.Mood, string(result.State)
	}
}

// requestMissingInfo parks the ticket on the customer and asks for the
// outstanding fields.
func (s *FlowService) requestMissingInfo(ctx context.Context, ticket *domain.Ticket) (string, domain.Mood, string) {
	ticket.Status = domain.TicketStatusPendingCustomer

	labels := make([]string, 0, len(ticket.MissingFields))
	for _, field := range ticket.MissingFields {
		labels = append(labels, fieldLabel(field))
	}
	draft := s.renderer.Render("request_missing_info", map[string]any{
		"user_name":      displayName(ticket.UserID),
		"mood":           ticket.Mood,
		"missing_fields": labels,
		"ticket_id":      ticket.ID,
	})
	ticket.AddMessage(domain.SenderBot, draft)

	if err := s.store.Put(ctx, ticket); err != nil {
		s.logger.Error("ticket update failed", zap.String("user_id", ticket.UserID), zap.Error(err))
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketPendingCustomer,
		TicketID: ticket.ID,
		UserID:   ticket.UserID,
		Payload:  events.TicketPendingCustomerPayload{MissingFields: ticket.MissingFields},
	})
	return draft, ticket.Mood, "missing_info"
}

// safeDispatch shields the turn from dispatcher panics; any panic
// becomes a system-error outcome.
func (s *FlowService) safeDispatch(intent string, entities map[string]string) (result dispatch.Result) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dispatch panicked", zap.String("intent", intent), zap.Any("panic", r))
			result = dispatch.Result{State: dispatch.StateError, Data: map[string]any{}}
		}
	}()
	return s.dispatcher.Dispatch(intent, entities)
}

func (s *FlowService) templateContext(ticket *domain.Ticket, result dispatch.Result) map[string]any {
	data := map[string]any{}
	for slot, value := range ticket.Entities {
		data[slot] = value
	}
	for key, value := range result.Data {
		data[key] = value
	}
	return map[string]any{
		"user_name":      displayName(ticket.UserID),
		"mood":           ticket.Mood,
		"severity":       ticket.Severity,
		"ticket_id":      ticket.ID,
		"data":           data,
		"missing_fields": ticket.MissingFields,
	}
}

// peekMood reads the active ticket's mood for compliance context
// without mutating anything.
func (s *FlowService) peekMood(ctx context.Context, userID string) domain.Mood {
	ticket, err := s.store.Get(ctx, userID)
	if err != nil || ticket == nil {
		return domain.MoodNeutral
	}
	return ticket.Mood
}

func (s *FlowService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.events.Publish(ctx, event)
}

// displayName guesses a salutation from the address-shaped user id.
func displayName(userID string) string {
	name := userID
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}
	if name == "" {
		return "there"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func fieldLabel(field string) string {
	switch field {
	case domain.SlotOrderID:
		return "your order ID"
	case domain.SlotEmail:
		return "your account email address"
	case domain.SlotProductName:
		return "the product name"
	default:
		return strings.ReplaceAll(field, "_", " ")
	}
}
