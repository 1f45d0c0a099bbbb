package model

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Object is a stored blob with its content type.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Storage is an object store used for mirrored avatars.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (Object, error)
	Remove(ctx context.Context, key string) error
}

// AvatarMirror copies Telegram profile photos into object storage.
type AvatarMirror interface {
	// Enqueue schedules a copy of url for the user. It never blocks and
	// reports whether the job was accepted.
	Enqueue(userID uuid.UUID, url string) bool
	Open(ctx context.Context, userID uuid.UUID) (Object, error)
	Remove(ctx context.Context, userID uuid.UUID) error
}
