// Package api is the HTTP glue around the workflows: gin handlers, session
// auth, and the thin HTML views. All consistency logic lives in
// internal/workflow; handlers only translate between HTTP and typed results.
package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/catalog"
	"github.com/yourorg/notespot/internal/models"
	"github.com/yourorg/notespot/internal/workflow"
)

// AuthorDirectory is the read-only author collaborator.
type AuthorDirectory interface {
	ListAuthors(ctx context.Context) ([]models.Author, error)
	FindAuthor(ctx context.Context, id string) (*models.Author, error)
}

// Handler bundles the injected collaborators for the items surface.
type Handler struct {
	catalog    catalog.Store
	authors    AuthorDirectory
	creator    *workflow.Creator
	deleter    *workflow.Deleter
	downloader *workflow.Downloader
	uploadDir  string
	log        *zap.Logger
}

func NewHandler(cat catalog.Store, authors AuthorDirectory, creator *workflow.Creator, deleter *workflow.Deleter, downloader *workflow.Downloader, uploadDir string, log *zap.Logger) *Handler {
	return &Handler{
		catalog:    cat,
		authors:    authors,
		creator:    creator,
		deleter:    deleter,
		downloader: downloader,
		uploadDir:  uploadDir,
		log:        log,
	}
}

// ListItems serves GET /items with optional title/publishedBefore/publishedAfter filters.
func (h *Handler) ListItems(c *gin.Context) {
	f := catalog.Filter{
		Title:           c.Query("title"),
		PublishedBefore: c.Query("publishedBefore"),
		PublishedAfter:  c.Query("publishedAfter"),
	}
	docs, err := h.catalog.Find(c.Request.Context(), catalog.BuildQuery(f))
	if err != nil {
		h.log.Error("listing documents", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Documents": docs,
		"Search":    f,
	})
}

// NewItem serves the creation form. Requires authentication.
func (h *Handler) NewItem(c *gin.Context) {
	h.renderNewForm(c, http.StatusOK, &models.Document{}, "")
}

// ShowItem serves GET /items/:id.
func (h *Handler) ShowItem(c *gin.Context) {
	doc, err := h.catalog.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			h.log.Error("loading document", zap.String("id", c.Param("id")), zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, "/items")
		return
	}
	var author *models.Author
	if doc.AuthorID != "" {
		if a, err := h.authors.FindAuthor(c.Request.Context(), doc.AuthorID); err == nil {
			author = a
		}
	}
	c.HTML(http.StatusOK, "show.tmpl", gin.H{
		"Document": doc,
		"Author":   author,
		"Cover":    coverDataURI(doc),
	})
}

// DownloadItem serves GET /items/download/:token, streaming the locally
// staged copy. An unknown token renders the expired-link view, not an error
// page.
func (h *Handler) DownloadItem(c *gin.Context) {
	handle, err := h.downloader.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, workflow.ErrLinkExpired) {
			c.HTML(http.StatusGone, "expired.tmpl", gin.H{})
			return
		}
		h.log.Error("resolving download", zap.Error(err))
		c.String(http.StatusInternalServerError, "download unavailable")
		return
	}
	c.FileAttachment(handle.Path, handle.FileName)
}

// DeleteItem serves DELETE /items/:id. Requires authentication.
func (h *Handler) DeleteItem(c *gin.Context) {
	err := h.deleter.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
	case err != nil:
		h.log.Error("deleting document", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove item"})
	default:
		c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
	}
}

// renderNewForm draws the creation form, optionally pre-filled from doc and
// carrying an error message.
func (h *Handler) renderNewForm(c *gin.Context, code int, doc *models.Document, errMsg string) {
	authors, err := h.authors.ListAuthors(c.Request.Context())
	if err != nil {
		h.log.Error("listing authors", zap.Error(err))
		c.Redirect(http.StatusSeeOther, "/items")
		return
	}
	c.HTML(code, "new.tmpl", gin.H{
		"Document": doc,
		"Authors":  authors,
		"Error":    errMsg,
	})
}

func coverDataURI(doc *models.Document) string {
	if !doc.HasCover() {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", doc.CoverImageType, base64.StdEncoding.EncodeToString(doc.CoverImage))
}
