package domain

// File is an upload handle. Its identity is the pointer: the same file
// dropped twice is two handles and two independent uploads.
type File struct {
	// Name is the base file name presented to the server.
	Name string

	// MIMEType is the detected or declared content type.
	MIMEType string

	// Size is the content length in bytes.
	Size int64

	// Path is the local path the file was read from, if any.
	Path string

	// Content holds the file bytes.
	Content []byte
}

// UploadResult is the server response for a completed upload.
type UploadResult struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	Size     int64  `json:"size"`
}
