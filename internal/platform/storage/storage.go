// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage keeps profile pictures in an S3-compatible bucket (MinIO, R2, S3).

Objects are public-read through [Client.URL]; the service stores the object
key as the avatar's public id so that the previous picture can be removed
when a new one is uploaded.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/accounts/internal/platform/config"
)

// objectAPI is the subset of *minio.Client used here, so tests run without a server.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Client uploads and removes avatar objects.
type Client struct {
	api       objectAPI
	bucket    string
	publicURL string
}

// New dials the configured endpoint and makes sure the bucket exists.
func New(ctx context.Context, cfg config.Avatar, logger *slog.Logger) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: invalid endpoint: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	storage, err := NewWithAPI(ctx, client, cfg.Bucket, publicURL)
	if err != nil {
		return nil, err
	}

	logger.Info("avatar_storage_connected",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("bucket", cfg.Bucket),
	)

	return storage, nil
}

// NewWithAPI allows injecting a fake object API (tests).
func NewWithAPI(ctx context.Context, api objectAPI, bucket, publicURL string) (*Client, error) {
	client := &Client{
		api:       api,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("storage: failed to ensure bucket exists: %w", err)
	}

	return client, nil
}

func (client *Client) ensureBucket(ctx context.Context) error {
	exists, err := client.api.BucketExists(ctx, client.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.api.MakeBucket(ctx, client.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Put uploads data under key and returns its public URL.
func (client *Client) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := client.api.PutObject(ctx, client.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload %s: %w", key, err)
	}
	return client.URL(key), nil
}

// Remove deletes the object at key. A missing object is not an error.
func (client *Client) Remove(ctx context.Context, key string) error {
	err := client.api.RemoveObject(ctx, client.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("storage: failed to delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public address of key.
func (client *Client) URL(key string) string {
	return client.publicURL + "/" + (&url.URL{Path: key}).EscapedPath()
}
