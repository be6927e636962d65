package workflow

import (
	"encoding/base64"
	"encoding/json"

	"github.com/yourorg/notespot/internal/models"
)

// coverMIMETypes is the allow-list for embedded cover images.
var coverMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

type coverPayload struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// applyCover decodes the companion cover field onto doc. Decoding is
// best-effort: malformed JSON, bad base64, empty data, or a MIME type outside
// the allow-list leaves doc without a cover and is never an error.
func applyCover(doc *models.Document, encoded string) {
	if encoded == "" {
		return
	}
	var p coverPayload
	if err := json.Unmarshal([]byte(encoded), &p); err != nil {
		return
	}
	if !coverMIMETypes[p.Type] {
		return
	}
	data, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil || len(data) == 0 {
		return
	}
	doc.CoverImage = data
	doc.CoverImageType = p.Type
}
