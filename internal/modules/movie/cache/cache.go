package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anoa.com/moviecatalog/internal/entity"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// MovieCache holds movie detail payloads (movie with genres and actors).
// Failures are logged and treated as misses so the database stays the
// source of truth.
//
// Every invalidation bumps a per-movie version. Get reports the version seen
// on a miss and Set drops the write when the version has moved since, so a
// reader that loaded a row before a concurrent write cannot put it back.
type MovieCache interface {
	Get(ctx context.Context, movieID uint) (movie *entity.Movie, version int64, ok bool)
	Set(ctx context.Context, movie *entity.Movie, version int64)
	Invalidate(ctx context.Context, movieIDs ...uint)
}

var errStaleEntry = errors.New("movie cache entry is stale")

type redisMovieCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewMovieCache returns a redis backed cache, or a no-op cache when
// redisClient is nil or ttl is not positive.
func NewMovieCache(redisClient *redis.Client, ttl time.Duration) MovieCache {
	if redisClient == nil || ttl <= 0 {
		return noopCache{}
	}
	return &redisMovieCache{redisClient: redisClient, ttl: ttl}
}

func key(movieID uint) string {
	return fmt.Sprintf("movie:detail:%d", movieID)
}

func versionKey(movieID uint) string {
	return fmt.Sprintf("movie:version:%d", movieID)
}

// versionTTL outlives any single request; an expired version reads as 0,
// which only causes one extra miss.
func (c *redisMovieCache) versionTTL() time.Duration {
	return c.ttl + time.Hour
}

func (c *redisMovieCache) Get(ctx context.Context, movieID uint) (*entity.Movie, int64, bool) {
	pipe := c.redisClient.Pipeline()
	entry := pipe.Get(ctx, key(movieID))
	version := pipe.Get(ctx, versionKey(movieID))
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		log.WithError(err).WithField("movie_id", movieID).Warn("movie cache read failed")
		return nil, -1, false
	}

	current, err := version.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.WithError(err).WithField("movie_id", movieID).Warn("movie cache version is corrupt")
		return nil, -1, false
	}

	raw, err := entry.Bytes()
	if err != nil {
		return nil, current, false
	}

	var movie entity.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		log.WithError(err).WithField("movie_id", movieID).Warn("movie cache entry is corrupt")
		return nil, current, false
	}
	return &movie, current, true
}

func (c *redisMovieCache) Set(ctx context.Context, movie *entity.Movie, version int64) {
	if version < 0 {
		return
	}

	raw, err := json.Marshal(movie)
	if err != nil {
		log.WithError(err).WithField("movie_id", movie.ID).Warn("movie cache encode failed")
		return
	}

	vKey := versionKey(movie.ID)
	err = c.redisClient.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleEntry
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(movie.ID), raw, c.ttl)
			return nil
		})
		return err
	}, vKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleEntry), errors.Is(err, redis.TxFailedErr):
		log.WithField("movie_id", movie.ID).Debug("movie changed while loading, skipping cache write")
	default:
		log.WithError(err).WithField("movie_id", movie.ID).Warn("movie cache write failed")
	}
}

func (c *redisMovieCache) Invalidate(ctx context.Context, movieIDs ...uint) {
	if len(movieIDs) == 0 {
		return
	}

	pipe := c.redisClient.TxPipeline()
	for _, id := range movieIDs {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), c.versionTTL())
		pipe.Del(ctx, key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.WithError(err).WithField("movie_ids", movieIDs).Warn("movie cache invalidation failed")
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, uint) (*entity.Movie, int64, bool) { return nil, 0, false }
func (noopCache) Set(context.Context, *entity.Movie, int64)              {}
func (noopCache) Invalidate(context.Context, ...uint)                    {}
