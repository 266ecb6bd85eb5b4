package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errGetOverview = "failed to load status overview"
	errIssueToken  = "failed to issue stream token"
)

// @Summary      Current overview
// @Description  Player state, cached record, and the most recent reconcile run.
// @Tags         status
// @Produce      json
// @Success      200  {object}  service.Overview
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
// @Security     BasicAuth
func (h *Handler) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	overview, err := h.services.Overview(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetOverview, "overview_failed", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary      Trigger an immediate reconcile run
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "run"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/reconcile [post]
// @Security     BasicAuth
func (h *Handler) triggerReconcile(c *gin.Context) {
	rec := h.services.RunOnce(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"run": rec})
}

// @Summary      Mint a websocket token
// @Tags         status
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/ws-token [get]
// @Security     BasicAuth
func (h *Handler) getWSToken(c *gin.Context) {
	token, err := h.services.IssueWSToken()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errIssueToken, "ws_token_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
