package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// PaymentWebhookPreflight answers the gateway's CORS preflight.
func (a Api) PaymentWebhookPreflight(c *gin.Context) {
	setCORSHeaders(c)
	c.Status(http.StatusNoContent)
}

// PaymentWebhook handles one inbound payment-gateway event. Only the event
// id is read from the body; everything else is re-fetched from the gateway
// during verification. A verification failure returns 500 so the gateway's
// own retry mechanism redelivers the event; once verification succeeds the
// event is acknowledged with 200 regardless of the match outcome.
func (a Api) PaymentWebhook(c *gin.Context) {
	setCORSHeaders(c)

	var payload struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || payload.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event id is required"})
		return
	}

	event, err := a.taqseet.HandleGatewayEvent(c.Request.Context(), payload.ID)
	if err != nil {
		logrus.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": event.Status})
}
