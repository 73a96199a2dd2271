package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

// uploadField is the multipart form field carrying an uploaded file.
const uploadField = "file"

var errUploadTooLarge = errors.New("upload too large")

// isMultipart reports whether the request carries a multipart form.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readUpload reads the uploaded file of a multipart request, bounded by
// maxBytes.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, fmt.Errorf("%w: limit is %d bytes", errUploadTooLarge, maxBytes)
		}
		return "", nil, fmt.Errorf("%w: malformed multipart form", domain.ErrInvalidFormat)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, fmt.Errorf("%w: form field %q is required", domain.ErrValidation, uploadField)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	return header.Filename, data, nil
}
