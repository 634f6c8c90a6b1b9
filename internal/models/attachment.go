package models

import (
	"io"
)

// Attachment is an uploaded file handed over by a front-end
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
