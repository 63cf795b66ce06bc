package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/api/dto"
	"github.com/spec-kit/support-engine/internal/domain"
	"github.com/spec-kit/support-engine/internal/service"
	"github.com/spec-kit/support-engine/pkg/util"
)

// TicketsHandler exposes operator ticket endpoints.
type TicketsHandler struct {
	admin *service.TicketAdminService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(admin *service.TicketAdminService) *TicketsHandler {
	return &TicketsHandler{admin: admin}
}

// ListTickets GET /v1/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.admin.ActiveTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, ticketSummary(ticket))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /v1/tickets/:userId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return util.NewInvalidInput("userId required")
	}
	ticket, err := h.admin.TicketForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// CloseTicket DELETE /v1/tickets/:userId.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return util.NewInvalidInput("userId required")
	}
	if err := h.admin.CloseTicket(c.UserContext(), userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		TicketID:      ticket.ID,
		UserID:        ticket.UserID,
		Intent:        ticket.Intent,
		Mood:          ticket.Mood,
		Severity:      ticket.Severity,
		Status:        ticket.Status,
		MissingFields: ticket.MissingFields,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetail {
	history := make([]dto.HistoryEntry, 0, len(ticket.History))
	for _, msg := range ticket.History {
		history = append(history, dto.HistoryEntry{
			Timestamp: msg.Timestamp,
			Sender:    msg.Sender,
			Text:      msg.Text,
		})
	}
	return dto.TicketDetail{
		TicketSummary: ticketSummary(ticket),
		Entities:      ticket.Entities,
		History:       history,
	}
}
