package domain

// FileStatus is the intake state of one submitted file
type FileStatus string

const (
	FileStatusUploading FileStatus = "uploading"
	FileStatusDone      FileStatus = "done"
	FileStatusError     FileStatus = "error"
)

// UploadedFile tracks one file of a multi-file analysis
type UploadedFile struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Status FileStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
	Rows   int        `json:"rows"`
}
