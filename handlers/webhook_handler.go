package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/internal/service"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

// emptyTwiML acknowledges the webhook without asking Twilio to reply; replies
// are sent through the REST API instead.
const emptyTwiML = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

type inboundHandler interface {
	HandleInbound(ctx context.Context, event domain.InboundEvent) service.Result
}

type WebhookHandler struct {
	concierge inboundHandler
}

func NewWebhookHandler(concierge inboundHandler) *WebhookHandler {
	return &WebhookHandler{concierge: concierge}
}

// InboundMessageRequest is the subset of Twilio's form payload the concierge
// reads.
type InboundMessageRequest struct {
	MessageSid  string `form:"MessageSid"`
	Body        string `form:"Body"`
	From        string `form:"From" validate:"required,whatsapp_address"`
	ProfileName string `form:"ProfileName" validate:"max=256"`
}

// ReceiveMessage godoc
// @Summary Receive a WhatsApp message
// @Description Twilio webhook for inbound WhatsApp messages. Always answers 200 with an empty TwiML document.
// @Tags whatsapp
// @Accept x-www-form-urlencoded
// @Produce xml
// @Param X-Twilio-Signature header string false "Twilio request signature"
// @Param Body formData string false "Message text"
// @Param From formData string true "Sender address, e.g. whatsapp:+393331234567"
// @Param ProfileName formData string false "Sender display name"
// @Param MessageSid formData string false "Twilio message SID"
// @Success 200 {string} string "TwiML"
// @Failure 403 {object} response.ErrorResponse
// @Router /api/v1/whatsapp/webhook [post]
func (h *WebhookHandler) ReceiveMessage(c echo.Context) error {
	var req InboundMessageRequest
	if err := c.Bind(&req); err != nil {
		logger.Warnf("Ignoring webhook with unreadable payload: %v", err)
		return acknowledge(c)
	}

	if err := c.Validate(&req); err != nil {
		logger.Warnf("Ignoring webhook from %q: %v", req.From, err)
		return acknowledge(c)
	}

	eventID := strings.TrimSpace(req.MessageSid)
	if eventID == "" {
		eventID = uuid.NewString()
	}

	event := domain.InboundEvent{
		ID:                eventID,
		RawBody:           req.Body,
		FromAddress:       req.From,
		SenderDisplayName: req.ProfileName,
		ReceivedAt:        time.Now().UTC(),
	}

	// Work already submitted to the transport is not cancelled when Twilio
	// drops the connection.
	ctx := context.WithoutCancel(c.Request().Context())
	result := h.concierge.HandleInbound(ctx, event)

	logger.Debugf("Webhook %s acknowledged in state %s", eventID, result.State)
	return acknowledge(c)
}

// WebhookStatus godoc
// @Summary Webhook status
// @Description Reports that the WhatsApp webhook endpoint is reachable
// @Tags whatsapp
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/whatsapp/webhook [get]
func (h *WebhookHandler) WebhookStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "WhatsApp webhook endpoint is active",
	})
}

func acknowledge(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMETextXMLCharsetUTF8, []byte(emptyTwiML))
}
