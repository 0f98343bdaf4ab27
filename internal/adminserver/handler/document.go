package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxhub/admin-backend/internal/adminserver/cache"
	"github.com/taxhub/admin-backend/internal/adminserver/database"
	"github.com/taxhub/admin-backend/internal/adminserver/middleware"
	"github.com/taxhub/admin-backend/internal/common/cnst"
	"github.com/taxhub/admin-backend/internal/common/dto"
)

// Document handles document metadata tracking
type Document struct {
	db     database.Database
	cache  *cache.Cache
	logger *zap.Logger
}

// NewDocument creates a new document handler
func NewDocument(db database.Database, cache *cache.Cache, logger *zap.Logger) *Document {
	return &Document{db: db, cache: cache, logger: logger.Named("handler.document")}
}

// List returns documents filtered by status, client or name search
func (h *Document) List(c *gin.Context) {
	filter := database.DocumentFilter{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
		Search:   c.Query("search"),
	}

	docs, total, err := h.db.ListDocuments(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DocumentListResponse{Documents: docs, Total: total})
}

// Create starts tracking a document for a client
func (h *Document) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.db.GetClientByID(c.Request.Context(), req.ClientID); err != nil {
		respondError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = cnst.DocumentStatusPending
	}

	doc := &database.Document{
		ClientID: req.ClientID,
		Name:     req.Name,
		Type:     req.Type,
		Status:   status,
		Version:  1,
		Notes:    req.Notes,
	}

	current, _ := middleware.CurrentAdmin(c)
	err := h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.CreateDocument(ctx, doc); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Document Created", "document", doc.ID, current.ID,
			"", "Document: "+doc.Name)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusCreated, doc)
}

// Update applies the internal partial-update schema to a document
func (h *Document) Update(c *gin.Context) {
	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.db.GetDocumentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	changes := make(map[string]string)
	if req.Name != nil {
		doc.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.Type != nil {
		doc.Type = *req.Type
		changes["type"] = *req.Type
	}
	if req.Status != nil {
		doc.Status = *req.Status
		changes["status"] = *req.Status
	}
	if req.Version != nil {
		doc.Version = *req.Version
		changes["version"] = strconv.Itoa(*req.Version)
	}
	if req.UploadedAt != nil {
		doc.UploadedAt = req.UploadedAt
		changes["uploaded_at"] = req.UploadedAt.String()
	}
	if req.Notes != nil {
		doc.Notes = *req.Notes
		changes["notes"] = *req.Notes
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.UpdateDocument(ctx, doc); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Document Updated", "document", doc.ID, current.ID,
			"", fmt.Sprint(changes))
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.JSON(http.StatusOK, doc)
}

// Delete stops tracking a document
func (h *Document) Delete(c *gin.Context) {
	doc, err := h.db.GetDocumentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	current, _ := middleware.CurrentAdmin(c)
	err = h.db.Transaction(c.Request.Context(), func(ctx context.Context) error {
		if err := h.db.DeleteDocument(ctx, doc.ID); err != nil {
			return err
		}
		return recordAudit(ctx, h.db, "Document Deleted", "document", doc.ID, current.ID,
			"Document: "+doc.Name, "")
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.cache.DeletePattern(c.Request.Context(), "analytics:*")
	c.Status(http.StatusNoContent)
}
