package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/metrics"
	"github.com/jobdropo/messages-service/internal/service"
)

type Handler struct {
	Svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{Svc: svc}
}

func reqID(c *gin.Context) string { return c.GetString("X-Request-ID") }

// viewerIdentity prefers the explicit query param; a verified token's
// email serves as fallback so browser clients can omit it.
func viewerIdentity(c *gin.Context) string {
	if v := c.Query("ownerIdentity"); v != "" {
		return v
	}
	return c.GetString("email")
}

func parseSince(c *gin.Context) (time.Time, bool) {
	raw := c.Query("since")
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ListThreads godoc
// @Summary List conversation threads for a viewer
// @Tags nachrichten
// @Produce json
// @Param ownerIdentity query string true "viewer email"
// @Param view query string false "active|archived|trashed (default active)"
// @Param since query string false "RFC3339 watermark for unread counts"
// @Success 200 {array} domain.ThreadSummary
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten/threads [get]
func (h *Handler) ListThreads(c *gin.Context) {
	viewer := viewerIdentity(c)
	if viewer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerIdentity required"})
		return
	}
	view, ok := domain.ParseView(c.Query("view"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be active, archived or trashed"})
		return
	}
	since, ok := parseSince(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
		return
	}

	rows, err := h.Svc.Threads(c.Request.Context(), viewer, view, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if rows == nil {
		rows = []domain.ThreadSummary{}
	}
	c.JSON(http.StatusOK, rows)
}

// ListNachrichten godoc
// @Summary History of one thread, oldest first
// @Tags nachrichten
// @Produce json
// @Param auftragId query string true "job posting id"
// @Param limit query int false "page size, max 500 (default 200)"
// @Param skip query int false "messages to skip from the start"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten [get]
func (h *Handler) ListNachrichten(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	skip, _ := strconv.Atoi(c.Query("skip"))
	items, err := h.Svc.History(c.Request.Context(), c.Query("auftragId"), limit, skip)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if items == nil {
		items = []domain.Nachricht{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type sendReq struct {
	AuftragID string `json:"auftragId"`
	AngebotID string `json:"angebotId"`
	Von       string `json:"von"`
	An        string `json:"an"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
}

// SendNachricht godoc
// @Summary Send a message into a job's thread
// @Tags nachrichten
// @Accept json
// @Produce json
// @Param payload body sendReq true "auftragId, von, an, text, kind(normal|system)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten [post]
func (h *Handler) SendNachricht(c *gin.Context) {
	var in sendReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	n, err := h.Svc.Send(c.Request.Context(), service.SendInput{
		AuftragID: in.AuftragID,
		AngebotID: in.AngebotID,
		Von:       in.Von,
		An:        in.An,
		Text:      in.Text,
		Kind:      in.Kind,
	}, reqID(c))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	metrics.MessagesSent.WithLabelValues(n.Kind).Inc()
	c.JSON(http.StatusCreated, gin.H{"item": n})
}

// UnreadCount godoc
// @Summary Count inbound messages newer than the client watermark
// @Tags nachrichten
// @Produce json
// @Param ownerIdentity query string true "owner email"
// @Param since query string false "RFC3339 watermark"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten/count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	since, ok := parseSince(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
		return
	}
	count, err := h.Svc.UnreadCount(c.Request.Context(), viewerIdentity(c), since)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Healthz godoc
// @Summary Liveness probe
// @Tags system
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
