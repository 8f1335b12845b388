package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobdropo/messages-service/internal/domain"
	"github.com/jobdropo/messages-service/internal/repo"
	"github.com/jobdropo/messages-service/internal/service"
)

type createAuftragReq struct {
	Titel            string `json:"titel"`
	Beschreibung     string `json:"beschreibung"`
	Kategorie        string `json:"kategorie"`
	ErstelltVon      string `json:"erstelltVon"`
	AuftraggeberName string `json:"auftraggeberName"`
}

// CreateAuftrag godoc
// @Summary Create a job posting
// @Tags auftraege
// @Accept json
// @Produce json
// @Param payload body createAuftragReq true "titel, erstelltVon"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/auftraege [post]
func (h *Handler) CreateAuftrag(c *gin.Context) {
	var in createAuftragReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Titel) == "" || in.ErstelltVon == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "titel and erstelltVon required"})
		return
	}
	a := &domain.Auftrag{
		Titel:            strings.TrimSpace(in.Titel),
		Beschreibung:     in.Beschreibung,
		Kategorie:        in.Kategorie,
		ErstelltVon:      in.ErstelltVon,
		AuftraggeberName: in.AuftraggeberName,
	}
	if err := h.Svc.Store.CreateAuftrag(c.Request.Context(), a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": a})
}

// ListAuftraege godoc
// @Summary List job postings of one requester
// @Tags auftraege
// @Produce json
// @Param erstelltVon query string true "owner email"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/auftraege [get]
func (h *Handler) ListAuftraege(c *gin.Context) {
	owner := c.Query("erstelltVon")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "erstelltVon required"})
		return
	}
	items, err := h.Svc.Store.ListAuftraegeByOwner(c.Request.Context(), owner, 50, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if items == nil {
		items = []domain.Auftrag{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetAuftrag godoc
// @Summary Fetch one job posting
// @Tags auftraege
// @Produce json
// @Param id path string true "auftrag id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/auftraege/{id} [get]
func (h *Handler) GetAuftrag(c *gin.Context) {
	a, err := h.Svc.Store.FindAuftrag(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "auftrag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": a})
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateAuftragStatus godoc
// @Summary Change the status of a job posting
// @Tags auftraege
// @Accept json
// @Produce json
// @Param id path string true "auftrag id"
// @Param payload body statusReq true "offen|vergeben|abgeschlossen"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/auftraege/{id}/status [patch]
func (h *Handler) UpdateAuftragStatus(c *gin.Context) {
	var in statusReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}
	if err := h.Svc.ChangeAuftragStatus(c.Request.Context(), c.Param("id"), in.Status, reqID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "auftrag not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "status": in.Status})
}

// ListAngebote godoc
// @Summary List the offers submitted against one job posting
// @Tags angebote
// @Produce json
// @Param auftragId query string true "job posting id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/angebote [get]
func (h *Handler) ListAngebote(c *gin.Context) {
	id := c.Query("auftragId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "auftragId required"})
		return
	}
	items, err := h.Svc.Store.ListAngeboteByAuftrag(c.Request.Context(), id, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if items == nil {
		items = []domain.Angebot{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type angebotReq struct {
	AuftragID          string  `json:"auftragId"`
	DienstleisterEmail string  `json:"dienstleisterEmail"`
	Preis              float64 `json:"preis"`
	Kommentar          string  `json:"kommentar"`
}

// SubmitAngebot godoc
// @Summary Submit an offer against a job posting
// @Tags angebote
// @Accept json
// @Produce json
// @Param payload body angebotReq true "auftragId, dienstleisterEmail, preis"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/angebote [post]
func (h *Handler) SubmitAngebot(c *gin.Context) {
	var in angebotReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	g := &domain.Angebot{
		AuftragID:          in.AuftragID,
		DienstleisterEmail: in.DienstleisterEmail,
		Preis:              in.Preis,
		Kommentar:          in.Kommentar,
	}
	if err := h.Svc.SubmitAngebot(c.Request.Context(), g, reqID(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "auftrag not found"})
		case errors.Is(err, repo.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "angebot already submitted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": g})
}
