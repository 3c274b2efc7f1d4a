package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/wikied/internal/client/models"
	"github.com/dmitrijs2005/wikied/internal/netx"
)

// UploadImage sends an image as multipart form field "image" and returns the
// hosted URL.
func (c *Client) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	body, contentType, err := netx.ImageForm("image", filename, data)
	if err != nil {
		return "", err
	}

	r := &request{
		method:      http.MethodPost,
		path:        "/images/upload",
		body:        body.Bytes(),
		contentType: contentType,
	}
	resp, err := c.do(ctx, r)
	if err != nil {
		return "", err
	}

	var out models.ImageUploadResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return out.URL, nil
}
