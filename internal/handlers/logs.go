package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	errTailLogs  = "failed to read log file"
	errClearLogs = "failed to clear log file"

	defaultTailLines = 200
	maxTailLines     = 5000
)

// @Summary      Tail the daemon log
// @Tags         logs
// @Produce      json
// @Param        lines  query   int  false  "Number of trailing lines"  default(200)
// @Success      200  {object}  map[string]interface{}  "count, lines"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BasicAuth
func (h *Handler) getLogs(c *gin.Context) {
	n := defaultTailLines
	if qs := c.Query("lines"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil && v > 0 && v <= maxTailLines {
			n = v
		}
	}
	lines, err := h.services.Tail(n)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errTailLogs, "log_tail_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(lines),
		"lines": lines,
	})
}

// @Summary      Clear the daemon log
// @Tags         logs
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/logs [delete]
// @Security     BasicAuth
func (h *Handler) clearLogs(c *gin.Context) {
	if err := h.services.Clear(); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errClearLogs, "log_clear_failed", err)
		return
	}
	h.log.Infow("log_cleared")
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
