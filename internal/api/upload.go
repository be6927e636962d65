package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/notespot/internal/intake"
	"github.com/yourorg/notespot/internal/models"
	"github.com/yourorg/notespot/internal/workflow"
)

// CreateItem serves POST /items: multipart body with one file field plus
// metadata fields and an optional JSON-encoded base64 cover field. Intake
// validation happens here; everything after is the create workflow's job.
func (h *Handler) CreateItem(c *gin.Context) {
	up, err := intake.FromRequest(c.Request, h.uploadDir)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			h.renderNewForm(c, http.StatusUnprocessableEntity, formDocument(c), "Invalid upload: "+verr.Hint)
			return
		}
		h.log.Error("staging upload", zap.Error(err))
		h.renderNewForm(c, http.StatusInternalServerError, formDocument(c), "Could not process the upload")
		return
	}

	meta := workflow.Metadata{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		PublishDate: parsePublishDate(c.PostForm("publishDate")),
		AuthorID:    c.PostForm("author"),
		Cover:       c.PostForm("cover"),
	}

	doc, err := h.creator.Create(c.Request.Context(), up, meta)
	if err != nil {
		var perr *workflow.PersistenceError
		if errors.As(err, &perr) {
			// redisplay the form pre-filled from the record that failed to persist
			h.renderNewForm(c, http.StatusInternalServerError, perr.Record, "Error creating item")
			return
		}
		var serr *workflow.StorageError
		if errors.As(err, &serr) {
			h.log.Error("object store unavailable", zap.Error(err))
			h.renderNewForm(c, http.StatusBadGateway, formDocument(c), "Storage is unavailable, try again later")
			return
		}
		h.log.Error("create workflow", zap.Error(err))
		h.renderNewForm(c, http.StatusInternalServerError, formDocument(c), "Error creating item")
		return
	}

	c.Redirect(http.StatusSeeOther, "/items/"+doc.ID.Hex())
}

// formDocument rebuilds a Document from the submitted form fields so the
// creation form can be redisplayed pre-filled after a validation failure.
func formDocument(c *gin.Context) *models.Document {
	return &models.Document{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		PublishDate: parsePublishDate(c.PostForm("publishDate")),
		AuthorID:    c.PostForm("author"),
	}
}

func parsePublishDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
