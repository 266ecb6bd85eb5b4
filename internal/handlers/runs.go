package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListRuns    = "failed to load run history"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'", s)
}

// @Summary      List reconcile runs
// @Description  Filter by date range and outcome. If 'to' is date-only it is treated as end-of-day inclusive.
// @Tags         runs
// @Produce      json
// @Param        from     query   string  false  "Start of range"  example(2026-08-01)
// @Param        to       query   string  false  "End of range"    example(2026-08-31)
// @Param        outcome  query   string  false  "Run outcome"  Enums(PLAYER_NOT_RUNNING,READ_FAILED,REMOTE_ERROR,NOT_PLAYING,BLOCKED_FOREIGN,SET_FAILED,STATUS_SET)
// @Success      200   {object}  map[string]interface{}  "count, runs"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BasicAuth
func (h *Handler) getRuns(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from, to time.Time
		outcome  = strings.ToUpper(strings.TrimSpace(c.Query("outcome")))
		err      error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		// Date-only "to" means the whole day.
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	runs, err := h.services.List(ctx, from, to, outcome)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListRuns, "runs_list_failed",
			err, "from", from, "to", to, "outcome", outcome)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}
