package face

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis registry backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Prefix namespaces the registry keys. Defaults to "facezoom:".
	Prefix string `toml:"prefix"`
}

// Redis is a registry stored in a redis hash, for daemon setups where the
// editor host and facezoom run as separate processes. Each hash field holds
// one face record as JSON.
type Redis struct {
	client *redis.Client
	key    string
}

// redisRecord is the per-face hash field value.
type redisRecord struct {
	Height  *int   `json:"height,omitempty"`
	Inherit string `json:"inherit,omitempty"`
}

// NewRedis connects to redis and verifies the connection with a ping.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "facezoom:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}

	return &Redis{client: client, key: cfg.Prefix + "faces"}, nil
}

// List returns face names sorted lexically. Redis hashes have no intrinsic
// order, so sorting keeps enumeration stable within and across calls.
func (r *Redis) List(ctx context.Context) ([]string, error) {
	names, err := r.client.HKeys(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list faces: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Height returns the explicit height of a face, if it has one.
func (r *Redis) Height(ctx context.Context, name string) (int, bool, error) {
	rec, exists, err := r.get(ctx, name)
	if err != nil || !exists || rec.Height == nil {
		return 0, false, err
	}
	return *rec.Height, true, nil
}

// SetHeight writes an explicit height. Unknown faces are a silent no-op.
func (r *Redis) SetHeight(ctx context.Context, name string, height int) error {
	rec, exists, err := r.get(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	h := height
	rec.Height = &h
	return r.put(ctx, name, rec)
}

// Parent returns the inheritance parent of a face, if it has one.
func (r *Redis) Parent(ctx context.Context, name string) (string, bool, error) {
	rec, exists, err := r.get(ctx, name)
	if err != nil || !exists || rec.Inherit == "" {
		return "", false, err
	}
	return rec.Inherit, true, nil
}

// Put adds or replaces a face. Used for seeding and by the editor host.
func (r *Redis) Put(ctx context.Context, f Face) error {
	return r.put(ctx, f.Name, redisRecord{Height: f.Height, Inherit: f.Inherit})
}

// Close releases the redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) get(ctx context.Context, name string) (redisRecord, bool, error) {
	data, err := r.client.HGet(ctx, r.key, name).Result()
	if err == redis.Nil {
		return redisRecord{}, false, nil
	}
	if err != nil {
		return redisRecord{}, false, fmt.Errorf("read face %s: %w", name, err)
	}

	var rec redisRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return redisRecord{}, false, fmt.Errorf("parse face %s: %w", name, err)
	}
	return rec, true, nil
}

func (r *Redis) put(ctx context.Context, name string, rec redisRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal face %s: %w", name, err)
	}
	if err := r.client.HSet(ctx, r.key, name, data).Err(); err != nil {
		return fmt.Errorf("write face %s: %w", name, err)
	}
	return nil
}

// Ensure Redis implements Registry.
var _ Registry = (*Redis)(nil)
