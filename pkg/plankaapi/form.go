package plankaapi

import (
	"bytes"
	"io"
	"mime/multipart"

	"github.com/go-faster/errors"
)

// Form is a multipart/form-data request body. The pipeline sends it as is
// with its own boundary content type.
type Form struct {
	buf    bytes.Buffer
	w      *multipart.Writer
	closed bool
}

// NewForm returns an empty form.
func NewForm() *Form {
	f := &Form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// AddField adds a plain form field.
func (f *Form) AddField(name, value string) error {
	if f.closed {
		return errors.New("form already sent")
	}
	return f.w.WriteField(name, value)
}

// AddFile adds a file part read from content.
func (f *Form) AddFile(field, fileName string, content io.Reader) error {
	if f.closed {
		return errors.New("form already sent")
	}
	part, err := f.w.CreateFormFile(field, fileName)
	if err != nil {
		return errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, content); err != nil {
		return errors.Wrap(err, "write form file")
	}
	return nil
}

// ContentType returns the multipart content type including the boundary.
func (f *Form) ContentType() string {
	return f.w.FormDataContentType()
}

func (f *Form) reader() (io.Reader, error) {
	if !f.closed {
		if err := f.w.Close(); err != nil {
			return nil, errors.Wrap(err, "close form")
		}
		f.closed = true
	}
	return bytes.NewReader(f.buf.Bytes()), nil
}
