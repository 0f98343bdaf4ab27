package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/middleware"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// Note handles client notes
type Note struct {
	db     database.Database
	logger *zap.Logger
}

// NewNote creates a new note handler
func NewNote(db database.Database, logger *zap.Logger) *Note {
	return &Note{db: db, logger: logger.Named("handler.note")}
}

// List returns a client's notes, newest first
func (h *Note) List(c *gin.Context) {
	if _, err := h.db.GetClientByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	notes, err := h.db.ListNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes, "total": len(notes)})
}

// Create attaches a note to a client
func (h *Note) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetClientByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	current, _ := middleware.CurrentAdmin(c)
	note := &database.Note{
		ClientID:       c.Param("id"),
		Content:        req.Content,
		IsClientFacing: req.IsClientFacing,
		AuthorID:       current.ID,
	}
	if err := h.db.CreateNote(c.Request.Context(), note); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// Delete removes a note from a client
func (h *Note) Delete(c *gin.Context) {
	note, err := h.db.GetNoteByID(c.Request.Context(), c.Param("noteId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if note.ClientID != c.Param("id") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := h.db.DeleteNote(c.Request.Context(), note.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
