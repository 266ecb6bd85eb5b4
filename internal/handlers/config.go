package handlers

import (
	"net/http"
	"strings"
	"tunestatus/internal/config"
	"tunestatus/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidBodyPref = "invalid body: "
	errApplyConfig     = "failed to apply config"
)

// configUpdateRequest is the editable config plus an optional new cleartext
// admin password, which is hashed before it ever reaches the stored config.
type configUpdateRequest struct {
	config.Config
	Password string `json:"password,omitempty"`
}

// redactedConfig strips secrets for transport to the browser.
func redactedConfig(cfg config.Config) config.Config {
	if cfg.Slack.Token != "" {
		cfg.Slack.Token = logger.Redact(cfg.Slack.Token)
	}
	cfg.HTTP.PasswordHash = ""
	return cfg
}

// looksRedacted reports whether a submitted secret is the redacted form the
// GET endpoint handed out, i.e. not a real new value.
func looksRedacted(s string) bool {
	return s == "" || strings.Contains(s, "…") || s == "[redacted]"
}

// @Summary      Read config
// @Description  Secrets are redacted in the response.
// @Tags         config
// @Produce      json
// @Success      200  {object}  config.Config
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/config [get]
// @Security     BasicAuth
func (h *Handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, redactedConfig(h.services.Current()))
}

// @Summary      Update config
// @Description  Validates, persists, and hot-applies. Redacted secret fields keep their stored values; a non-empty "password" field replaces the admin password.
// @Tags         config
// @Accept       json
// @Produce      json
// @Param        body  body   config.Config  true  "Edited config"
// @Success      200   {object}  config.Config
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/config [put]
// @Security     BasicAuth
func (h *Handler) putConfig(c *gin.Context) {
	var req configUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	current := h.services.Current()
	cfg := req.Config

	// Redacted secrets round-trip unchanged.
	if looksRedacted(cfg.Slack.Token) {
		cfg.Slack.Token = current.Slack.Token
	}
	cfg.HTTP.PasswordHash = current.HTTP.PasswordHash
	if req.Password != "" {
		hash, err := h.services.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cfg.HTTP.PasswordHash = hash
	}

	if err := h.services.Apply(cfg); err != nil {
		// Validation failures come back as 400 with the reason.
		if h.log != nil {
			h.log.Infow("config_update_rejected", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Infow("config_updated")
	c.JSON(http.StatusOK, redactedConfig(h.services.Current()))
}
