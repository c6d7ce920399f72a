package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "spice/internal/errors"
	"spice/internal/services"
)

// NotificationHandler exposes the outbound email channel to admins.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService services.NotificationServicer, auditService services.AuditServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, auditService: auditService}
}

// SendEmailRequest represents the request payload for sending an email
type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body" binding:"required"`
}

// SendEmail hands a message to the mail relay. Delivery is not confirmed.
// @Summary     Send an email
// @Description Queue an HTML email. The request is accepted even if the relay later fails.
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SendEmailRequest true "Email"
// @Success     202 {object} MessageResponse "Accepted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /notifications/email [post]
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	h.notificationService.Enqueue(req.To, req.Subject, req.Body)

	h.auditService.Log(actor, "SEND_EMAIL", "email", req.To, c.ClientIP(),
		map[string]interface{}{"subject": req.Subject})

	c.JSON(http.StatusAccepted, gin.H{"message": "Email accepted for delivery"})
}
