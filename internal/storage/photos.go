// Package storage uploads incident photos to an external object-storage
// HTTP API. No image processing happens server-side; the service stores the
// bytes and the API only ever keeps the resulting public URL.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("almacenamiento de fotos no configurado")
	ErrInvalidUpload = errors.New("contenido de foto inválido")
)

// PhotoStore is the interface contract handlers depend on.
type PhotoStore interface {
	// Upload stores the decoded content under a generated object name and
	// returns its public URL.
	Upload(ctx context.Context, fileName, contentType, base64Content string) (string, error)
}

// Client talks to a Supabase-storage-shaped HTTP API:
// POST {base}/storage/v1/object/{bucket}/{object} uploads,
// GET  {base}/storage/v1/object/public/{bucket}/{object} serves.
type Client struct {
	http   *resty.Client
	bucket string
	log    *zap.Logger
}

// NewClient returns a configured photo storage client, or nil when no
// storage backend is configured (uploads then fail with ErrNotConfigured).
func NewClient(baseURL, bucket, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	http := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Authorization", "Bearer "+apiKey)

	return &Client{
		http:   http,
		bucket: bucket,
		log:    logger,
	}
}

// Upload stores the photo and returns its public URL.
func (c *Client) Upload(ctx context.Context, fileName, contentType, base64Content string) (string, error) {
	if c == nil {
		return "", ErrNotConfigured
	}

	content, err := base64.StdEncoding.DecodeString(base64Content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	if len(content) == 0 {
		return "", ErrInvalidUpload
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := uuid.NewString() + strings.ToLower(path.Ext(fileName))

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(content).
		Post(fmt.Sprintf("/storage/v1/object/%s/%s", c.bucket, objectName))
	if err != nil {
		return "", fmt.Errorf("photo upload failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("photo upload failed: storage returned %s", resp.Status())
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.http.BaseURL, c.bucket, objectName)
	c.log.Info("photo uploaded",
		zap.String("object", objectName),
		zap.Int("bytes", len(content)))

	return publicURL, nil
}
