package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoshii001/Content-Generator/internal/history"
	"github.com/yoshii001/Content-Generator/internal/session"
)

type handlers struct {
	ctrl  *session.Controller
	store *history.Store
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/", h.index)

	api := router.Group("/api")
	api.GET("/state", h.state)
	api.POST("/generate", h.generate)
	api.GET("/history", h.listHistory)
	api.DELETE("/history/:index", h.deleteHistory)
	api.GET("/history/:index/export", h.exportHistory)
	api.POST("/notification/dismiss", h.dismiss)
	api.GET("/templates", h.templates)
}

func (h *handlers) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"state":     h.ctrl.State(),
		"history":   h.ctrl.History(),
		"templates": session.Templates(),
	})
}

func (h *handlers) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.State())
}

func (h *handlers) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.ctrl.Submit(c.Request.Context(), req.Prompt)
	st := h.ctrl.State()
	if err != nil {
		var genErr *session.GenerationError
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, session.ErrEmptyPrompt):
			status = http.StatusBadRequest
		case errors.Is(err, session.ErrBusy):
			status = http.StatusConflict
		case errors.As(err, &genErr):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": st.Notification.Message, "state": st})
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": rec, "state": st})
}

func (h *handlers) listHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.History())
}

func parseIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history index"})
		return 0, false
	}
	return idx, true
}

func (h *handlers) deleteHistory(c *gin.Context) {
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	records, err := h.ctrl.Delete(idx)
	if err != nil {
		if errors.Is(err, history.ErrIndexOutOfRange) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.ctrl.State().Notification.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records, "state": h.ctrl.State()})
}

func (h *handlers) exportHistory(c *gin.Context) {
	idx, ok := parseIndex(c)
	if !ok {
		return
	}
	rec, err := h.store.Get(idx)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", history.ExportFilename))
	c.Data(http.StatusOK, history.ExportContentType, history.Export(rec))
}

func (h *handlers) dismiss(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctrl.DismissNotification())
}

func (h *handlers) templates(c *gin.Context) {
	c.JSON(http.StatusOK, session.Templates())
}
