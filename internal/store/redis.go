package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Repository for deployments
// that run Redis with persistence as the durable store.
type RedisStore struct {
	client      *redis.Client
	prefix      string // "link:" for code -> JSON record (string keys)
	ownerPrefix string // "owner_links:" for owner -> codes (sorted set scored by creation time)
}

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:      client,
		prefix:      "link:",
		ownerPrefix: "owner_links:",
	}
}

// insertScript stores the record only if the code is free and indexes it under its owner
// in the same step, so a failure never leaves one write without the other.
// KEYS[1] link key, KEYS[2] owner set key or "". ARGV: payload, score, code.
var insertScript = redis.NewScript(`
if redis.call("SET", KEYS[1], ARGV[1], "NX") == false then
	return 0
end
if KEYS[2] ~= "" then
	redis.call("ZADD", KEYS[2], ARGV[2], ARGV[3])
end
return 1
`)

type redisRecord struct {
	Code      string `json:"code"`
	LongURL   string `json:"longUrl"`
	OwnerID   string `json:"ownerId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func (r *RedisStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RedisStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	payload, err := json.Marshal(redisRecord{
		Code:      string(link.Code),
		LongURL:   link.LongURL,
		OwnerID:   string(link.OwnerID),
		CreatedAt: link.CreatedAt.UnixNano(),
	})
	if err != nil {
		return err
	}

	owner := ""
	if link.OwnerID != "" {
		owner = r.ownerPrefix + string(link.OwnerID)
	}

	created, err := insertScript.Run(ctx, r.client,
		[]string{r.prefix + string(link.Code), owner},
		payload, link.CreatedAt.UnixNano(), string(link.Code),
	).Int()
	if err != nil {
		return err
	}

	if created == 0 {
		return shortener.ErrDuplicateKey
	}

	return nil
}

func (r *RedisStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	payload, err := r.client.Get(ctx, r.prefix+string(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return decodeRecord(payload)
}

func (r *RedisStore) ListByOwner(ctx context.Context, owner shortener.OwnerID) ([]*shortener.ShortLink, error) {
	codes, err := r.client.ZRevRange(ctx, r.ownerPrefix+string(owner), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	links := make([]*shortener.ShortLink, 0, len(codes))
	if len(codes) == 0 {
		return links, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = r.prefix + code
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, value := range values {
		payload, ok := value.(string)
		if !ok {
			continue
		}

		link, err := decodeRecord([]byte(payload))
		if err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, nil
}

func decodeRecord(payload []byte) (*shortener.ShortLink, error) {
	var rec redisRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}

	return &shortener.ShortLink{
		Code:      shortener.Code(rec.Code),
		LongURL:   rec.LongURL,
		OwnerID:   shortener.OwnerID(rec.OwnerID),
		CreatedAt: time.Unix(0, rec.CreatedAt).UTC(),
	}, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
