package httpclient

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// MultipartBody is sent as multipart/form-data when used as Request.Body.
// Fields are written in key order, then Files in slice order.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one file part. Data wins over Reader; ContentType defaults
// to application/octet-stream.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	Reader      io.Reader
}

// encode buffers the whole form so the request carries a Content-Length.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	for _, key := range slices.Sorted(maps.Keys(m.Fields)) {
		if err := mw.WriteField(key, m.Fields[key]); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		if err := f.writeTo(mw); err != nil {
			return nil, "", fmt.Errorf("file part %q: %w", f.FieldName, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

func (f FileField) writeTo(mw *multipart.Writer) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
	h.Set("Content-Type", cmp.Or(f.ContentType, "application/octet-stream"))

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	switch {
	case f.Data != nil:
		_, err = part.Write(f.Data)
	case f.Reader != nil:
		_, err = io.Copy(part, f.Reader)
	}
	return err
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
