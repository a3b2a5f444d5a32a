package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// multipartForm is a form body with plain fields and file parts.
// Files are read from disk when the request is encoded.
type multipartForm struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, path string
}

func (f *multipartForm) field(name, value string) *multipartForm {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *multipartForm) file(field, path string) *multipartForm {
	if path != "" {
		f.files = append(f.files, formFile{field: field, path: path})
	}
	return f
}

func (f *multipartForm) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", fld.name, err)
		}
	}
	for _, ff := range f.files {
		if err := writeFilePart(w, ff); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, ff formFile) error {
	src, err := os.Open(ff.path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", ff.path, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile(ff.field, filepath.Base(ff.path))
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", ff.field, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to read %s: %w", ff.path, err)
	}
	return nil
}
