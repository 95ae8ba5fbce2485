// Package webhook is the HTTP ingress for provider event notifications. It
// parses the event envelope, decodes the client-state token, and hands the
// event to the engine. The response is always an empty acknowledgment sent
// independently of command completion; the provider does not read a body.
package webhook

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sprucehealth/callflow/clientstate"
	"github.com/sprucehealth/callflow/engine"
	"github.com/sprucehealth/callflow/model"
)

// webhookRequest mirrors the provider's event envelope.
type webhookRequest struct {
	EventType string         `json:"event_type"`
	Payload   webhookPayload `json:"payload"`
}

type webhookPayload struct {
	CallControlID string `json:"call_control_id"`
	ClientState   string `json:"client_state"`
	Direction     string `json:"direction"`
	Digits        string `json:"digits"`
	From          string `json:"from"`
}

// Handler dispatches parsed webhook events into the engine.
type Handler struct {
	engine *engine.Engine
	log    *zap.Logger
}

// NewHandler creates a webhook handler backed by eng.
func NewHandler(eng *engine.Engine, log *zap.Logger) *Handler {
	return &Handler{
		engine: eng,
		log:    log,
	}
}

// ack sends the empty 200 acknowledgment. The provider ignores response
// bodies, so nothing is ever written.
func ack(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("")
}

// HandleEvent processes one provider notification. Every outcome,
// including a rejected request, is acknowledged with an empty 200: the
// provider retries nothing and reads nothing.
func (h *Handler) HandleEvent(c *fiber.Ctx) error {
	var req webhookRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Warn("invalid webhook received", zap.Error(err))
		return ack(c)
	}

	if req.EventType == "" {
		h.log.Warn("invalid webhook received", zap.String("reason", "missing event_type"))
		return ack(c)
	}

	eventType := model.EventType(req.EventType)
	if !eventType.Valid() {
		h.log.Warn("unhandled event type", zap.String("event_type", req.EventType))
		return ack(c)
	}

	if req.Payload.CallControlID == "" {
		h.log.Warn("invalid webhook received",
			zap.String("event_type", req.EventType),
			zap.String("reason", "missing call_control_id"),
		)
		return ack(c)
	}

	h.log.Debug("webhook received",
		zap.String("event_type", req.EventType),
		zap.String("call_control_id", req.Payload.CallControlID),
		zap.ByteString("payload", c.Body()),
	)

	state, err := clientstate.Decode(req.Payload.ClientState)
	if err != nil {
		// An undecodable token is not the lobby. Take no action rather
		// than guess a menu level.
		h.log.Error("undecodable client state",
			zap.String("call_control_id", req.Payload.CallControlID),
			zap.Error(err),
		)
		return ack(c)
	}

	h.engine.Dispatch(model.InboundEvent{
		Type:      eventType,
		CallID:    model.CallControlID(req.Payload.CallControlID),
		State:     state,
		Direction: model.Direction(req.Payload.Direction),
		Digits:    req.Payload.Digits,
		From:      req.Payload.From,
	})

	return ack(c)
}

// HandleStatus reports liveness.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": fiber.StatusOK, "message": "callflow is running"})
}
