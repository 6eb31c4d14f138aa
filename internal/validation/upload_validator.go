package validation

import (
	"mime/multipart"

	apperrors "tradepulse/internal/errors"
)

// UploadValidator applies the intake limits to multipart uploads
type UploadValidator struct {
	maxFiles int
	maxBytes int64
	allowed  []string
}

// NewUploadValidator creates an upload validator. maxBytes <= 0 disables the
// size check.
func NewUploadValidator(maxFiles int, maxBytes int64, allowed []string) *UploadValidator {
	return &UploadValidator{
		maxFiles: maxFiles,
		maxBytes: maxBytes,
		allowed:  normalizeExtensions(allowed),
	}
}

// Validate checks the file count, then each file in order. The first
// violation is returned as an API error.
func (v *UploadValidator) Validate(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return apperrors.ErrNoFiles
	}
	if len(files) > v.maxFiles {
		return apperrors.TooManyFilesError(len(files), v.maxFiles)
	}

	for _, fh := range files {
		if err := v.ValidateFile(fh.Filename, fh.Size); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFile checks one file by name and size
func (v *UploadValidator) ValidateFile(name string, size int64) error {
	if !hasExtension(name, v.allowed) {
		return apperrors.UnsupportedFileError(name, v.allowed)
	}
	if size == 0 {
		return apperrors.ErrValidation("files", name+" is empty")
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return apperrors.FileTooLargeError(name, v.maxBytes)
	}
	return nil
}

// MaxFiles returns the per-request file limit
func (v *UploadValidator) MaxFiles() int {
	return v.maxFiles
}
