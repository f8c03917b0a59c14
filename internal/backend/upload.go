package backend

import (
	"context"
	"net/http"
	"net/url"
)

// UploadImage forwards a base64 data URL to the backend upload endpoint,
// which stores it with the image host and returns the hosted URL.
func (c *Client) UploadImage(ctx context.Context, token string, in UploadRequest) (*UploadResult, error) {
	var res UploadResult
	if err := c.do(ctx, "upload.create", http.MethodPost, "/upload", token, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteImage(ctx context.Context, token, id string) error {
	return c.do(ctx, "upload.delete", http.MethodDelete, "/upload/"+url.PathEscape(id), token, nil, nil)
}
