package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/shoplite/shoplite-api/internal/application"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/response"
)

type AdminActivityHandler struct {
	Svc          *app.ActivityService
	Logger       *logrus.Logger
	PollInterval time.Duration
}

func NewAdminActivityHandler(svc *app.ActivityService, logger *logrus.Logger) *AdminActivityHandler {
	return &AdminActivityHandler{Svc: svc, Logger: logger, PollInterval: 2 * time.Second}
}

// List GET /api/admin/activity
func (h *AdminActivityHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)
	f := repo.ActivityFilter{
		AdminID:    c.Query("admin_id"),
		ActionType: c.Query("action_type"),
		TargetType: c.Query("target_type"),
		Page:       page,
		PerPage:    perPage,
	}
	entries, total, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		response.Fail[any](c, http.StatusInternalServerError, "failed to list activity", nil)
		return
	}
	response.OK(c, http.StatusOK, toActivityViews(entries), "activity", response.NewPage(page, perPage, total))
}

// Stream GET /api/admin/activity/stream — SSE feed of activity entries.
//
// The feed starts after the `last_id` query parameter (0 streams the whole
// log) and then polls for appended entries. Each event carries the entry id
// as the SSE id, so a client that reconnects with last_id set to the last id
// it saw resumes exactly where it left off.
func (h *AdminActivityHandler) Stream(c *gin.Context) {
	lastID, err := strconv.ParseInt(c.DefaultQuery("last_id", "0"), 10, 64)
	if err != nil || lastID < 0 {
		response.Fail[any](c, http.StatusBadRequest, "invalid last_id", nil)
		return
	}
	// Browsers send Last-Event-ID on automatic reconnect.
	if lei := c.GetHeader("Last-Event-ID"); lei != "" {
		if id, pErr := strconv.ParseInt(lei, 10, 64); pErr == nil && id > lastID {
			lastID = id
		}
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	it := h.Svc.Stream(lastID, 100)
	ticker := time.NewTicker(h.PollInterval)
	defer ticker.Stop()
	ctx := c.Request.Context()

	for {
		// drain everything currently appended, then wait for the next poll
		for {
			e, nErr := it.Next(ctx)
			if nErr != nil {
				if h.Logger != nil {
					h.Logger.WithError(nErr).Warn("activity stream read failed")
				}
				return
			}
			if e == nil {
				break
			}
			ev := sse.Event{
				Id:    strconv.FormatInt(e.ID, 10),
				Event: "activity",
				Data:  toActivityView(e),
			}
			if wErr := ev.Render(c.Writer); wErr != nil {
				return
			}
			c.Writer.Flush()
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
