package validation

import (
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradepulse/internal/errors"
)

func headers(names ...string) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(names))
	for _, name := range names {
		out = append(out, &multipart.FileHeader{Filename: name, Size: 10})
	}
	return out
}

func TestUploadValidator_Validate(t *testing.T) {
	tests := []struct {
		name   string
		files  []*multipart.FileHeader
		status int
		code   string
	}{
		{name: "accepted", files: headers("a.csv", "b.XLSX")},
		{name: "no files", files: nil, status: http.StatusBadRequest, code: apperrors.CodeNoFiles},
		{name: "too many files", files: headers("1.csv", "2.csv", "3.csv"), status: http.StatusBadRequest, code: apperrors.CodeTooManyFiles},
		{name: "unsupported extension", files: headers("a.csv", "notes.txt"), status: http.StatusBadRequest, code: apperrors.CodeUnsupportedFile},
		{name: "empty file", files: []*multipart.FileHeader{{Filename: "a.csv"}}, status: http.StatusBadRequest, code: apperrors.CodeValidationFailed},
		{name: "too large", files: []*multipart.FileHeader{{Filename: "a.csv", Size: 101}}, status: http.StatusRequestEntityTooLarge, code: apperrors.CodeFileTooLarge},
	}

	v := NewUploadValidator(2, 100, []string{".csv", ".xlsx"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.files)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}

			var apiErr *apperrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.ErrorCode)
		})
	}

	assert.Equal(t, 2, v.MaxFiles())
}
