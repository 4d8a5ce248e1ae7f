package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"

	"github.com/kbukum/structrest/transport"
)

// MultipartBody represents a multipart/form-data request body.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField represents a file to upload in a multipart request.
type FileField struct {
	// FieldName is the form field name (e.g., "file", "audio").
	FieldName string
	// FileName is the file name sent to the server. Defaults to FieldName.
	FileName string
	// ContentType is the MIME type (e.g., "audio/wav"). If empty, uses application/octet-stream.
	ContentType string
	// Data is the file content.
	Data []byte
}

// multipartFrom prepares the attachments of req. When Data is a map its
// entries become form fields; rest.FormFields endpoints send their
// arguments this way.
func multipartFrom(req *transport.Request) (*MultipartBody, error) {
	m := &MultipartBody{}
	if req.Data != nil {
		fields, ok := req.Data.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("multipart form fields must be a map, got %T", req.Data)
		}
		m.Fields = make(map[string]string, len(fields))
		for k, v := range fields {
			if v == nil {
				continue
			}
			m.Fields[k] = formatValue(v)
		}
	}
	keys := make([]string, 0, len(req.Files))
	for k := range req.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f := req.Files[k]
		field := f.FieldName
		if field == "" {
			field = k
		}
		m.Files = append(m.Files, FileField{
			FieldName:   field,
			FileName:    f.Filename,
			ContentType: f.ContentType,
			Data:        f.Contents,
		})
	}
	return m, nil
}

// encode builds the multipart body and returns the reader and content-type header.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	names := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		name := f.FileName
		if name == "" {
			name = f.FieldName
		}
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(name)+`"`)
		header.Set("Content-Type", ct)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}

		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// escapeQuotes replaces special characters in header values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}
