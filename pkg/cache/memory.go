package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// sturdyc 的 TTL 作用于整个客户端，这里把它设为上限，单条过期时间记录在 entry 中。
const memoryMaxTTL = 24 * time.Hour

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore 基于 sturdyc 的进程内 Store，单实例部署或测试时使用。
type MemoryStore struct {
	client *sturdyc.Client[entry]
	now    func() time.Time
}

// NewMemoryStore 创建进程内缓存。capacity 为最大条目数，shards 为分片数。
func NewMemoryStore(capacity, shards int) *MemoryStore {
	if capacity <= 0 {
		capacity = 10000
	}
	if shards <= 0 {
		shards = 10
	}
	client := sturdyc.New[entry](capacity, shards, memoryMaxTTL, 10,
		sturdyc.WithEvictionInterval(time.Minute),
	)
	return &MemoryStore{client: client, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := s.client.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	if e.expired(s.now()) {
		s.client.Delete(key)
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.client.Set(key, e)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

func (s *MemoryStore) DeleteByPattern(_ context.Context, pattern string) error {
	re, err := compileGlob(pattern)
	if err != nil {
		return err
	}
	for _, key := range s.client.ScanKeys() {
		if re.MatchString(key) {
			s.client.Delete(key)
		}
	}
	return nil
}
