// Package netx builds multipart bodies for the image upload endpoint.
package netx

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// MaxImageSize is the largest image the API accepts.
const MaxImageSize = 5 << 20

var (
	ErrImageTooLarge = errors.New("image is too large")
	ErrNotAnImage    = errors.New("file is not an image")
)

// ImageForm encodes data as a single-part multipart form under field and
// returns the body together with the Content-Type header value for it.
// The part's own Content-Type is sniffed from the bytes; anything that is not
// image/* is rejected.
func ImageForm(field, filename string, data []byte) (*bytes.Buffer, string, error) {
	if len(data) > MaxImageSize {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(data))
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrNotAnImage, ct)
	}

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(filename)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
