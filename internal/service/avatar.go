package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/miniapp-server/internal/logger"
	"github.com/dtroode/miniapp-server/internal/model"
)

const (
	// MaxAvatarSize bounds the size of a mirrored photo.
	MaxAvatarSize = 5 << 20

	defaultAvatarQueueSize = 64
	defaultAvatarTimeout   = 10 * time.Second
)

var (
	errAvatarTooLarge    = errors.New("avatar too large")
	errAvatarContentType = errors.New("avatar is not an image")
	errAvatarURL         = errors.New("unsupported avatar url")
)

var (
	_ model.AvatarMirror = (*AvatarMirror)(nil)
	_ model.AvatarMirror = NoopAvatars{}
)

// AvatarKey is the object key of a user's mirrored avatar.
func AvatarKey(id uuid.UUID) string {
	return "avatars/" + id.String()
}

func avatarSourceKey(id uuid.UUID) string {
	return "avatar-src:" + id.String()
}

type avatarJob struct {
	userID uuid.UUID
	url    string
}

// AvatarMirror downloads Telegram profile photos in the background and
// stores them in object storage. The last mirrored URL per user is kept in
// the cache so unchanged photos are not fetched again. Jobs of users deleted
// while the job was queued or in flight leave nothing behind.
type AvatarMirror struct {
	users   model.UserStore
	storage model.Storage
	cache   model.Cache
	client  *http.Client
	logger  *logger.Logger
	queue   chan avatarJob
}

func NewAvatarMirror(
	users model.UserStore,
	storage model.Storage,
	cache model.Cache,
	client *http.Client,
	logger *logger.Logger,
) *AvatarMirror {
	if client == nil {
		client = &http.Client{Timeout: defaultAvatarTimeout}
	}
	return &AvatarMirror{
		users:   users,
		storage: storage,
		cache:   cache,
		client:  client,
		logger:  logger,
		queue:   make(chan avatarJob, defaultAvatarQueueSize),
	}
}

func (m *AvatarMirror) Enqueue(userID uuid.UUID, url string) bool {
	select {
	case m.queue <- avatarJob{userID: userID, url: url}:
		return true
	default:
		m.logger.Warn("Avatar mirror: queue full, dropping job", "user_id", userID)
		return false
	}
}

// Run processes queued jobs until ctx is done.
func (m *AvatarMirror) Run(ctx context.Context) {
	m.logger.Info("Avatar mirror: worker started")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Avatar mirror: worker stopped")
			return
		case job := <-m.queue:
			if err := m.mirror(ctx, job); err != nil {
				m.logger.Warn("Avatar mirror: failed to mirror avatar",
					"user_id", job.userID,
					"error", err.Error())
			}
		}
	}
}

func (m *AvatarMirror) mirror(ctx context.Context, job avatarJob) error {
	source, err := m.cache.Get(ctx, avatarSourceKey(job.userID))
	if err == nil && string(source) == job.url {
		return nil
	}

	u, err := url.Parse(job.url)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return errAvatarURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch avatar: unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errAvatarContentType
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxAvatarSize+1))
	if err != nil {
		return fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(body) > MaxAvatarSize {
		return errAvatarTooLarge
	}

	exists, err := m.userExists(ctx, job.userID)
	if err != nil {
		return err
	}
	if !exists {
		m.logger.Debug("Avatar mirror: user deleted, skipping job", "user_id", job.userID)
		return nil
	}

	err = m.storage.Put(ctx, AvatarKey(job.userID), bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := m.cache.Set(ctx, avatarSourceKey(job.userID), []byte(job.url), 0); err != nil {
		m.logger.Warn("Avatar mirror: failed to remember avatar source",
			"user_id", job.userID,
			"error", err.Error())
	}

	// The account may have been deleted while the object was uploading.
	exists, err = m.userExists(ctx, job.userID)
	if err != nil {
		return err
	}
	if !exists {
		m.logger.Debug("Avatar mirror: user deleted during upload, removing avatar", "user_id", job.userID)
		return m.Remove(ctx, job.userID)
	}

	m.logger.Debug("Avatar mirror: avatar stored",
		"user_id", job.userID,
		"size", len(body))
	return nil
}

func (m *AvatarMirror) userExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.users.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, model.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to get user: %w", err)
	}
}

func (m *AvatarMirror) Open(ctx context.Context, userID uuid.UUID) (model.Object, error) {
	return m.storage.Get(ctx, AvatarKey(userID))
}

func (m *AvatarMirror) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := m.storage.Remove(ctx, AvatarKey(userID)); err != nil {
		return err
	}
	return m.cache.Delete(ctx, avatarSourceKey(userID))
}

// NoopAvatars is used when object storage is disabled.
type NoopAvatars struct{}

func (NoopAvatars) Enqueue(uuid.UUID, string) bool { return false }

func (NoopAvatars) Open(context.Context, uuid.UUID) (model.Object, error) {
	return model.Object{}, model.ErrNotFound
}

func (NoopAvatars) Remove(context.Context, uuid.UUID) error { return nil }
