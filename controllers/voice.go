package controllers

import (
	"net/http"
	"taskflow/logging"
	"taskflow/middleware"
	"taskflow/voice"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type VoiceController struct {
	Router *voice.Router
}

// HandleQuery runs one voice-agent query. The endpoint always answers
// 200; unrecognized or incomplete input yields guidance text.
func (vc *VoiceController) HandleQuery(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var input struct {
		Query     string `json:"query"`
		SessionID string `json:"sessionId"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := voice.ParseQuery(input.Query)

	logging.Logger.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"session": input.SessionID,
		"intent":  cmd.Intent.String(),
	}).Info("voice query")

	resp := vc.Router.Dispatch(identity.UserID, identity.Role, cmd)
	c.JSON(http.StatusOK, resp)
}
