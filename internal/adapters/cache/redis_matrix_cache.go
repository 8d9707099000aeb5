package cache

import (
	"bytes"
	"context"
	"darp-checker/internal/platform/obs"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMatrixCache stores parsed travel-time matrices in Redis.
//
// Values are a little-endian uint32 size followed by size*size int32 cells.
type RedisMatrixCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMatrixCache(client *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{Client: client, TTL: ttl}
}

// Connect to the Redis server at url.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}

	return client, nil
}

// Fetch a cached matrix.
func (c *RedisMatrixCache) GetMatrix(ctx context.Context, key string) (_ [][]int, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.GetMatrix")(&err)

	if c.Client == nil {
		return nil, false, errors.New("matrix cache: client is nil")
	}

	raw, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: %w", err)
	}

	table, err := decodeMatrix(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: key %q: %w", key, err)
	}

	return table, true, nil
}

// Store a matrix under key.
func (c *RedisMatrixCache) PutMatrix(ctx context.Context, key string, table [][]int) (err error) {
	defer obs.Time(ctx, "matrix.cache.PutMatrix")(&err)

	if c.Client == nil {
		return errors.New("matrix cache: client is nil")
	}

	raw, err := encodeMatrix(table)
	if err != nil {
		return fmt.Errorf("put matrix cache: %w", err)
	}

	if err := c.Client.Set(ctx, key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put matrix cache: %w", err)
	}

	return nil
}

func encodeMatrix(table [][]int) ([]byte, error) {
	n := len(table)
	buf := bytes.NewBuffer(make([]byte, 0, 4+4*n*n))
	if err := binary.Write(buf, binary.LittleEndian, uint32(n)); err != nil {
		return nil, err
	}

	cells := make([]int32, 0, n*n)
	for i, row := range table {
		if len(row) != n {
			return nil, fmt.Errorf("encode matrix: row %d has %d columns, want %d", i, len(row), n)
		}
		for _, v := range row {
			cells = append(cells, int32(v))
		}
	}
	if err := binary.Write(buf, binary.LittleEndian, cells); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeMatrix(raw []byte) ([][]int, error) {
	r := bytes.NewReader(raw)

	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("decode matrix: size: %w", err)
	}
	if int64(len(raw)-4) != 4*int64(n)*int64(n) {
		return nil, fmt.Errorf("decode matrix: %d bytes for size %d", len(raw), n)
	}

	cells := make([]int32, int(n)*int(n))
	if err := binary.Read(r, binary.LittleEndian, cells); err != nil {
		return nil, fmt.Errorf("decode matrix: cells: %w", err)
	}

	table := make([][]int, n)
	for i := range table {
		row := make([]int, n)
		for j := range row {
			row[j] = int(cells[i*int(n)+j])
		}
		table[i] = row
	}

	return table, nil
}
