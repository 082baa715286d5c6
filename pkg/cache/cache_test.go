package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileGlob(t *testing.T) {
	tests := []struct {
		pattern string
		key     string
		match   bool
	}{
		{"articles:*", "articles:paginated:es:1:10", true},
		{"articles:*", "articles:", true},
		{"articles:*", "banners:lang:es", false},
		{"articles:paginated:*", "articles:lang:es", false},
		{"cache:GET:/api/v1/articles*", "cache:GET:/api/v1/articles/abc", true},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"h[ae]llo", "hello", true},
		{"h[^e]llo", "hello", false},
		{"h[a-c]llo", "hbllo", true},
		{`literal\*`, "literal*", true},
		{`literal\*`, "literalX", false},
		{"dots.are.literal", "dotsXareXliteral", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.key, func(t *testing.T) {
			re, err := compileGlob(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.key))
		})
	}
}

// storeContract 对任意 Store 实现执行相同的行为检查。
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "articles:lang:es", []byte("es"), time.Minute))
	require.NoError(t, s.Set(ctx, "articles:paginated:es:1:10", []byte("page"), time.Minute))
	require.NoError(t, s.Set(ctx, "banners:lang:es", []byte("banner"), time.Minute))

	got, err := s.Get(ctx, "articles:lang:es")
	require.NoError(t, err)
	assert.Equal(t, []byte("es"), got)

	require.NoError(t, s.DeleteByPattern(ctx, "articles:*"))

	_, err = s.Get(ctx, "articles:lang:es")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = s.Get(ctx, "articles:paginated:es:1:10")
	assert.ErrorIs(t, err, ErrCacheMiss)

	got, err = s.Get(ctx, "banners:lang:es")
	require.NoError(t, err)
	assert.Equal(t, []byte("banner"), got)

	require.NoError(t, s.Delete(ctx, "banners:lang:es"))
	_, err = s.Get(ctx, "banners:lang:es")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(100, 2))
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(100, 2)
	now := time.Now()
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Second))

	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStoreCopiesValue(t *testing.T) {
	s := NewMemoryStore(100, 2)
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

// Redis 集成测试需要设置 CMS_TEST_REDIS_ADDR。
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CMS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CMS_TEST_REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	require.NoError(t, client.FlushDB(context.Background()).Err())

	storeContract(t, NewRedisStore(client))
}
