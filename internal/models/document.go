package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a catalog record for one uploaded binary. The actual bytes
// live in the object store under FileName; FileURL is the public locator
// returned by the store at upload time. Path points at the locally staged
// copy, which downloads are served from.
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	PublishDate time.Time          `bson:"publish_date" json:"publish_date"`
	AuthorID    string             `bson:"author,omitempty" json:"author,omitempty"`

	// UUID is the opaque token used in public download links so the
	// internal id is never exposed.
	UUID string `bson:"uuid" json:"uuid"`

	FileName string `bson:"file_name" json:"file_name"`
	FileURL  string `bson:"file_url" json:"file_url"`
	Path     string `bson:"path" json:"-"`
	Size     int64  `bson:"size" json:"size"`

	CoverImage     []byte `bson:"cover_image,omitempty" json:"-"`
	CoverImageType string `bson:"cover_image_type,omitempty" json:"cover_image_type,omitempty"`

	Downloads int64     `bson:"downloads" json:"downloads"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasCover reports whether an embedded cover image was accepted at create time.
func (d *Document) HasCover() bool {
	return len(d.CoverImage) > 0 && d.CoverImageType != ""
}

// Author is a read-only collaborator referenced by Document.AuthorID.
// Records are managed elsewhere; this service only looks them up.
type Author struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
