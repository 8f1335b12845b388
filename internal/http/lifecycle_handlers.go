package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobdropo/messages-service/internal/service"
)

type lifecycleReq struct {
	AuftragID   string `json:"auftragId"`
	Archivieren bool   `json:"archivieren"`
}

func bindLifecycle(c *gin.Context) (lifecycleReq, bool) {
	var in lifecycleReq
	if err := c.ShouldBindJSON(&in); err != nil || in.AuftragID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "auftragId required"})
		return in, false
	}
	return in, true
}

// ArchiveThread godoc
// @Summary Toggle the archive flag of a thread
// @Tags threads
// @Accept json
// @Produce json
// @Param payload body lifecycleReq true "auftragId, archivieren"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/nachrichten/archive [post]
func (h *Handler) ArchiveThread(c *gin.Context) {
	in, ok := bindLifecycle(c)
	if !ok {
		return
	}
	res, err := h.Svc.Archive(c.Request.Context(), in.AuftragID, in.Archivieren, reqID(c))
	if err != nil {
		if errors.Is(err, service.ErrThreadTrashed) {
			c.JSON(http.StatusConflict, gin.H{"error": "thread is in trash; restore first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "archiviert": in.Archivieren, "matched": res.Matched, "modified": res.Modified})
}

// TrashThread godoc
// @Summary Move a thread to the trash
// @Tags threads
// @Accept json
// @Produce json
// @Param payload body lifecycleReq true "auftragId"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten/trash [post]
func (h *Handler) TrashThread(c *gin.Context) {
	in, ok := bindLifecycle(c)
	if !ok {
		return
	}
	res, err := h.Svc.Trash(c.Request.Context(), in.AuftragID, reqID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "matched": res.Matched, "modified": res.Modified})
}

// RestoreThread godoc
// @Summary Restore a thread from the trash to active
// @Tags threads
// @Accept json
// @Produce json
// @Param payload body lifecycleReq true "auftragId"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten/restore [post]
func (h *Handler) RestoreThread(c *gin.Context) {
	in, ok := bindLifecycle(c)
	if !ok {
		return
	}
	res, err := h.Svc.Restore(c.Request.Context(), in.AuftragID, reqID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "matched": res.Matched, "modified": res.Modified})
}

// PurgeThread godoc
// @Summary Permanently delete a thread
// @Tags threads
// @Accept json
// @Produce json
// @Param payload body lifecycleReq true "auftragId"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/nachrichten/purge [post]
func (h *Handler) PurgeThread(c *gin.Context) {
	in, ok := bindLifecycle(c)
	if !ok {
		return
	}
	n, err := h.Svc.Purge(c.Request.Context(), in.AuftragID, reqID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": n})
}
