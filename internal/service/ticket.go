package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/model"
)

// TicketService tracks customer support tickets.
type TicketService struct {
	tickets TicketStore
	log     *zap.Logger
	now     func() time.Time
}

func NewTicketService(tickets TicketStore, log *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, log: log.Named("ticket"), now: time.Now}
}

// Create opens a ticket for customerID.
func (s *TicketService) Create(ctx context.Context, customerID uint64, issueType, description string) (*model.SupportTicket, error) {
	issueType, description = strings.TrimSpace(issueType), strings.TrimSpace(description)
	if issueType == "" {
		return nil, fmt.Errorf("%w: issue_type", model.ErrMissingField)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description", model.ErrMissingField)
	}
	t := &model.SupportTicket{
		CustomerID:  customerID,
		IssueType:   issueType,
		Description: description,
		Status:      model.TicketOpen,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.log.Info("ticket opened", zap.Uint64("ticket_id", t.ID), zap.Uint64("customer_id", customerID))
	return t, nil
}

// Resolve closes a ticket. Notes must not be blank.
func (s *TicketService) Resolve(ctx context.Context, id uint64, notes string) (*model.SupportTicket, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return nil, model.ErrResolutionNotesRequired
	}
	at := s.now().UTC()
	if err := s.tickets.Resolve(ctx, id, notes, at); err != nil {
		return nil, err
	}
	s.log.Info("ticket resolved", zap.Uint64("ticket_id", id))
	return s.tickets.GetByID(ctx, id)
}

// Get returns a ticket visible to actor.
func (s *TicketService) Get(ctx context.Context, id uint64, actor model.Actor) (*model.SupportTicket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(actor, t.CustomerID) {
		return nil, model.ErrNotOwner
	}
	return t, nil
}

// List returns one page of tickets visible to q.Actor.
func (s *TicketService) List(ctx context.Context, q model.PageQuery) (model.Page[model.SupportTicket], error) {
	q = q.Normalize()
	if q.Status != "" {
		if _, err := model.ParseTicketStatus(q.Status); err != nil {
			return model.Page[model.SupportTicket]{}, err
		}
	}
	items, total, err := s.tickets.List(ctx, q)
	if err != nil {
		return model.Page[model.SupportTicket]{}, fmt.Errorf("list tickets: %w", err)
	}
	return model.NewPage(items, q, total), nil
}

func (s *TicketService) CountOpen(ctx context.Context) (int64, error) {
	return s.tickets.CountOpen(ctx)
}
