// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjects implements objectAPI for testing without network.
type fakeObjects struct {
	bucketExists  bool
	bucketErr     error
	makeBucketErr error
	madeBucket    bool

	putErr      error
	putKey      string
	putSize     int64
	contentType string

	removeErr  error
	removedKey string
}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}

func (f *fakeObjects) PutObject(_ context.Context, _ string, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putKey, f.putSize, f.contentType = key, size, opts.ContentType
	_, _ = io.Copy(io.Discard, reader)
	return minio.UploadInfo{Key: key, Size: size}, f.putErr
}

func (f *fakeObjects) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	f.removedKey = key
	return f.removeErr
}

func TestNewWithAPI_CreatesMissingBucket(t *testing.T) {
	api := &fakeObjects{}
	client, err := NewWithAPI(context.Background(), api, "avatars", "https://cdn.example.com/")
	require.NoError(t, err)

	assert.True(t, api.madeBucket)
	assert.Equal(t, "https://cdn.example.com", client.publicURL)
}

func TestNewWithAPI_BucketErrors(t *testing.T) {
	_, err := NewWithAPI(context.Background(), &fakeObjects{bucketErr: errors.New("boom")}, "b", "")
	assert.Error(t, err)

	_, err = NewWithAPI(context.Background(), &fakeObjects{makeBucketErr: errors.New("denied")}, "b", "")
	assert.Error(t, err)
}

func TestClient_Put(t *testing.T) {
	api := &fakeObjects{bucketExists: true}
	client, err := NewWithAPI(context.Background(), api, "avatars", "https://cdn.example.com")
	require.NoError(t, err)

	url, err := client.Put(context.Background(), "avatars/u1/ann.png", "image/png", []byte{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/avatars/u1/ann.png", url)
	assert.Equal(t, int64(3), api.putSize)
	assert.Equal(t, "image/png", api.contentType)

	api.putErr = errors.New("quota")
	_, err = client.Put(context.Background(), "k", "image/png", nil)
	assert.Error(t, err)
}

func TestClient_Remove(t *testing.T) {
	api := &fakeObjects{bucketExists: true}
	client, err := NewWithAPI(context.Background(), api, "avatars", "https://cdn.example.com")
	require.NoError(t, err)

	require.NoError(t, client.Remove(context.Background(), "old"))
	assert.Equal(t, "old", api.removedKey)

	api.removeErr = minio.ErrorResponse{Code: "NoSuchKey"}
	assert.NoError(t, client.Remove(context.Background(), "gone"))

	api.removeErr = errors.New("network")
	assert.Error(t, client.Remove(context.Background(), "k"))
}
