package club

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrNoData is returned by Load when nothing has been stored yet.
var ErrNoData = errors.New("no club data stored")

// ClubStore persists the latest ClubData between the refresh workflow and the web server.
type ClubStore interface {
	Load(ctx context.Context) (ClubData, error)
	Save(ctx context.Context, data ClubData) error
	Delete(ctx context.Context) error
}

// NewStore returns a RedisStore when cfg.RedisAddr is set, otherwise a FileStore.
func NewStore(cfg *Config, logger *slog.Logger) ClubStore {
	if cfg.RedisAddr != "" {
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ClubID, logger)
	}
	return NewFileStore(cfg.DataPath, cfg.MirrorPath, logger)
}

// FileStore keeps the data as indented JSON on disk. Writes go through a
// temp file and a rename, so readers never see a partial document.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	mirror string
	logger *slog.Logger
}

// NewFileStore stores at path. When mirror is not empty every save is also
// copied there, e.g. into the static site's data directory.
func NewFileStore(path, mirror string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, mirror: mirror, logger: logger}
}

func (s *FileStore) Load(ctx context.Context) (ClubData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ClubData{}, ErrNoData
	}
	if err != nil {
		return ClubData{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var data ClubData
	if err := json.Unmarshal(b, &data); err != nil {
		return ClubData{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) Save(ctx context.Context, data ClubData) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, b); err != nil {
		return err
	}
	if s.mirror != "" {
		if err := writeFileAtomic(s.mirror, b); err != nil {
			s.logger.Warn("Failed to write mirror copy", "path", s.mirror, "error", err)
		}
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

func writeFileAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// RedisStore keeps the data as a JSON string under club:<club id>.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

func NewRedisStore(addr, password string, db int, clubID string, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, key: RedisKey(clubID), logger: logger}
}

// RedisKey is the key a club's data is stored under.
func RedisKey(clubID string) string {
	return "club:" + clubID
}

func (s *RedisStore) Load(ctx context.Context) (ClubData, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return ClubData{}, ErrNoData
	}
	if err != nil {
		s.logger.Error("Redis GET failed", "key", s.key, "error", err)
		return ClubData{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}

	var data ClubData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ClubData{}, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return data, nil
}

func (s *RedisStore) Save(ctx context.Context, data ClubData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		s.logger.Error("Redis SET failed", "key", s.key, "error", err)
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	s.logger.Debug("Redis SET succeeded", "key", s.key, "bytes", len(b))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
