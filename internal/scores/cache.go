package scores

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// BestTime is the channel-independent record for one guessing item.
type BestTime struct {
	UserID   string
	UserName string
	Elapsed  time.Duration
}

// LeaderboardEntry is one row of the redis-backed solve counter.
type LeaderboardEntry struct {
	UserID string
	Solved int
}

// Cache keeps hot score state in redis: per-item best times and a solve
// counter per game. Like the repository, a nil cache is a valid no-op.
type Cache struct {
	rdb *redis.Client
}

func NewCache(redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return &Cache{rdb: rdb}, nil
}

// NewCacheWithClient wraps an existing client; tests hand in miniredis.
func NewCacheWithClient(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func bestKey(game, itemKey string) string {
	return "guess:best:" + game + ":" + itemKey
}

func leaderboardKey(game string) string {
	return "guess:lb:" + game
}

// UpdateBest lowers the stored best time for an item if elapsed beats it.
// The check-and-set runs under WATCH so two simultaneous solves cannot
// both win. Returns whether the record was taken.
func (c *Cache) UpdateBest(ctx context.Context, game, itemKey, userID, userName string, elapsed time.Duration) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	key := bestKey(game, itemKey)
	improved := false
	txn := func(tx *redis.Tx) error {
		improved = false
		cur, err := tx.HGet(ctx, key, "ms").Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			ms, perr := strconv.ParseInt(cur, 10, 64)
			if perr != nil {
				return fmt.Errorf("corrupt best time %q: %w", cur, perr)
			}
			if elapsed.Milliseconds() >= ms {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]any{
				"ms":   elapsed.Milliseconds(),
				"user": userID,
				"name": userName,
			})
			return nil
		})
		if err == nil {
			improved = true
		}
		return err
	}
	for i := 0; i < 5; i++ {
		err := c.rdb.Watch(ctx, txn, key)
		if err == nil {
			return improved, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return false, err
		}
	}
	return false, redis.TxFailedErr
}

// Best reads the record for an item; ok is false when nobody holds one.
func (c *Cache) Best(ctx context.Context, game, itemKey string) (BestTime, bool, error) {
	var bt BestTime
	if c == nil || c.rdb == nil {
		return bt, false, nil
	}
	vals, err := c.rdb.HGetAll(ctx, bestKey(game, itemKey)).Result()
	if err != nil {
		return bt, false, err
	}
	if len(vals) == 0 {
		return bt, false, nil
	}
	ms, err := strconv.ParseInt(vals["ms"], 10, 64)
	if err != nil {
		return bt, false, fmt.Errorf("corrupt best time %q: %w", vals["ms"], err)
	}
	bt.UserID = vals["user"]
	bt.UserName = vals["name"]
	bt.Elapsed = time.Duration(ms) * time.Millisecond
	return bt, true, nil
}

// RecordSolve bumps the user's solve counter for the game.
func (c *Cache) RecordSolve(ctx context.Context, game, userID string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.ZIncrBy(ctx, leaderboardKey(game), 1, userID).Err()
}

// Leaderboard returns the top solvers for a game, best first.
func (c *Cache) Leaderboard(ctx context.Context, game string, n int) ([]LeaderboardEntry, error) {
	if c == nil || c.rdb == nil {
		return nil, nil
	}
	if n <= 0 {
		n = 10
	}
	zs, err := c.rdb.ZRevRangeWithScores(ctx, leaderboardKey(game), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		id, _ := z.Member.(string)
		out = append(out, LeaderboardEntry{UserID: id, Solved: int(z.Score)})
	}
	return out, nil
}
