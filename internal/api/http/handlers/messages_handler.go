package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/api/dto"
	"github.com/spec-kit/support-engine/internal/service"
	"github.com/spec-kit/support-engine/pkg/util"
)

// MessagesHandler exposes the conversation turn endpoint.
type MessagesHandler struct {
	flow *service.FlowService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(flow *service.FlowService) *MessagesHandler {
	return &MessagesHandler{flow: flow}
}

// Process POST /v1/messages. Always returns 200 with a reply; the flow
// service converts internal faults into user-facing text.
func (h *MessagesHandler) Process(c *fiber.Ctx) error {
	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewInvalidInput("invalid payload")
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Text) == "" {
		return util.NewInvalidInput("user_id and text required")
	}

	reply := h.flow.ProcessMessage(c.UserContext(), req.UserID, req.Text)
	return c.JSON(dto.MessageResponse{Reply: reply})
}
