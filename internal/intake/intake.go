// Package intake receives a multipart upload and materializes its single file
// field as a staged local object with a collision-resistant name. The staged
// file is handed to the create workflow by value; nothing here touches the
// object store or the catalog.
package intake

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// MaxUploadBytes is the per-file upload ceiling.
const MaxUploadBytes = 100 << 20 // 100 MB

// FileField is the name of the multipart file field.
const FileField = "file"

// Result describes one staged upload.
type Result struct {
	// FileName is the generated collision-resistant name
	// (<unix-millis>-<random><original extension>); it doubles as the
	// object-store key.
	FileName string
	// Path is the absolute location of the staged local copy.
	Path string
	Size int64
	// ContentType is the MIME type declared by the client, falling back to
	// application/octet-stream.
	ContentType string
}

// ValidationError is a user-correctable intake failure. Hint carries a
// remediation suggestion suitable for redisplay on the form.
type ValidationError struct {
	Hint string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid upload: %v", e.Err)
	}
	return "invalid upload: " + e.Hint
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FromRequest validates the multipart body of r and stages its file field
// under dir. A missing file field, an oversize body, or a malformed multipart
// payload yields a *ValidationError; anything else is an internal failure.
func FromRequest(r *http.Request, dir string) (*Result, error) {
	// MaxBytesReader makes oversize bodies fail during multipart parsing
	// instead of filling the disk first.
	r.Body = http.MaxBytesReader(nil, r.Body, MaxUploadBytes+1<<20)
	file, header, err := r.FormFile(FileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, &ValidationError{Hint: "a file is required", Err: err}
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &ValidationError{Hint: "try a smaller file", Err: err}
		}
		return nil, &ValidationError{Hint: "could not read the upload, try again", Err: err}
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		return nil, &ValidationError{Hint: "try a smaller file", Err: fmt.Errorf("file is %d bytes, limit is %d", header.Size, MaxUploadBytes)}
	}

	name := generateName(header.Filename)
	path, size, err := stage(file, dir, name)
	if err != nil {
		return nil, err
	}
	return &Result{
		FileName:    name,
		Path:        path,
		Size:        size,
		ContentType: declaredType(header),
	}, nil
}

func stage(src multipart.File, dir, name string) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return abs, size, nil
}

// generateName builds <unix-millis>-<9-digit-random><ext> from the client's
// original file name, keeping only its extension.
func generateName(original string) string {
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), filepath.Ext(original))
}

func declaredType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
