package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/miniapp-server/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putErr         error
	putSize        int64
	putContentType string
	putBody        []byte

	getErr error

	statInfo minioLib.ObjectInfo
	statErr  error

	removeErr error
	removed   string
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, _ string, reader io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	f.putSize = size
	f.putContentType = opts.ContentType
	f.putBody, _ = io.ReadAll(reader)
	return minioLib.UploadInfo{Size: int64(len(f.putBody))}, nil
}

func (f *fakeMinio) GetObject(_ context.Context, _ string, _ string, _ minioLib.GetObjectOptions) (*minioLib.Object, error) {
	return nil, f.getErr
}

func (f *fakeMinio) StatObject(_ context.Context, _ string, _ string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	return f.statInfo, f.statErr
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minioLib.RemoveObjectOptions) error {
	f.removed = key
	return f.removeErr
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "avatars")
		require.NoError(t, err)
		assert.Equal(t, "avatars", c.bucket)
		assert.False(t, api.madeBucket)
	})

	t.Run("bucket created", func(t *testing.T) {
		api := &fakeMinio{}
		_, err := NewClientWithAPI(ctx, api, "avatars")
		require.NoError(t, err)
		assert.True(t, api.madeBucket)
	})

	t.Run("bucket check fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{bucketExistsErr: errors.New("boom")}, "avatars")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("bucket creation fails", func(t *testing.T) {
		c, err := NewClientWithAPI(ctx, &fakeMinio{makeBucketErr: errors.New("fail")}, "avatars")
		assert.Nil(t, c)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})
}

func TestClient_Put(t *testing.T) {
	ctx := context.Background()

	api := &fakeMinio{}
	c := &Client{api: api, bucket: "b"}
	require.NoError(t, c.Put(ctx, "avatars/1", bytes.NewReader([]byte("jpeg")), 4, "image/jpeg"))
	assert.Equal(t, int64(4), api.putSize)
	assert.Equal(t, "image/jpeg", api.putContentType)
	assert.Equal(t, []byte("jpeg"), api.putBody)

	c = &Client{api: &fakeMinio{putErr: errors.New("put-fail")}, bucket: "b"}
	assert.ErrorContains(t, c.Put(ctx, "k", bytes.NewReader(nil), -1, ""), "failed to upload object")
}

func TestClient_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "b"}
		_, err := c.Get(ctx, "absent")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("stat error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("stat-fail")}, bucket: "b"}
		_, err := c.Get(ctx, "k")
		assert.ErrorContains(t, err, "failed to stat object")
	})

	t.Run("get error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{getErr: errors.New("get-fail")}, bucket: "b"}
		_, err := c.Get(ctx, "k")
		assert.ErrorContains(t, err, "failed to get object")
	})
}

func TestClient_Remove(t *testing.T) {
	ctx := context.Background()

	api := &fakeMinio{}
	c := &Client{api: api, bucket: "b"}
	require.NoError(t, c.Remove(ctx, "avatars/1"))
	assert.Equal(t, "avatars/1", api.removed)

	c = &Client{api: &fakeMinio{removeErr: errors.New("remove-fail")}, bucket: "b"}
	assert.ErrorContains(t, c.Remove(ctx, "k"), "failed to delete object")
}
