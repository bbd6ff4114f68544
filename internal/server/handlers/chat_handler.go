package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/service/whatsapp"
)

const whatsAppObject = "whatsapp_business_account"

// ReportPusher delivers today's daily report outside the cron schedule.
type ReportPusher interface {
	RunDailyReport(ctx context.Context) error
}

// ChatHandler is the WhatsApp side of the API: the Meta webhook that carries
// chat commands, manual outbound texts and on-demand report delivery.
type ChatHandler struct {
	messaging whatsapp.MessagingService
	reports   ReportPusher
	logger    *zap.Logger
}

// NewChatHandler constructs the handler. reports may be nil, which disables
// on-demand report delivery.
func NewChatHandler(messaging whatsapp.MessagingService, reports ReportPusher, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{messaging: messaging, reports: reports, logger: logger}
}

// Verify answers Meta's subscription handshake.
func (h *ChatHandler) Verify(c *gin.Context) {
	challenge, err := h.messaging.VerifyWebhookToken(
		c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive runs every chat command in the callback. It answers 200 even when a
// reply fails: the entries are already recorded and a non-200 would make Meta
// redeliver the whole batch.
func (h *ChatHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Object != "" && payload.Object != whatsAppObject {
		h.logger.Debug("ignoring webhook for other object", zap.String("object", payload.Object))
		c.Status(http.StatusOK)
		return
	}

	if n := countMessages(payload); n > 0 {
		h.logger.Debug("chat commands received", zap.Int("messages", n))
	}
	if err := h.messaging.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("failed replying to chat commands", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// SendMessage pushes a manual text to one recipient.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to and message are required"})
		return
	}

	if err := h.messaging.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("failed sending outbound text", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}
	c.Status(http.StatusAccepted)
}

// SendDailyReport builds, archives and sends today's report now.
func (h *ChatHandler) SendDailyReport(c *gin.Context) {
	if h.reports == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report delivery is not configured"})
		return
	}
	if err := h.reports.RunDailyReport(c.Request.Context()); err != nil {
		h.logger.Error("on-demand daily report failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "daily report delivery failed"})
		return
	}
	c.Status(http.StatusAccepted)
}

func countMessages(payload models.WebhookPayload) int {
	n := 0
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			n += len(change.Value.Messages)
		}
	}
	return n
}
