package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestRedisCache runs against a live server. Set TOPODRAW_TEST_REDIS_URL,
// e.g. redis://localhost:6379/15, to enable it.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("TOPODRAW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TOPODRAW_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := NewScopedKeyer(nil, "topodraw-test:").ArtifactKey([]byte(t.Name()), "svg")
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get before Set: hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("<svg/>"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url"); err == nil {
		t.Error("NewRedisCache should reject a malformed URL")
	}
}
