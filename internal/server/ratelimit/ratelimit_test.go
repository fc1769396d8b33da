package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fixedClock lets tests step time explicitly.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(config *Config) (*Limiter, *fixedClock) {
	clock := &fixedClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(config)
	l.now = clock.now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/styles", "GET")
		if !allowed {
			t.Fatalf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/styles", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 || info.RetryAfter > 6*time.Second {
		t.Errorf("Expected retry after in (0, 6s], got %v", info.RetryAfter)
	}
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 60; i++ {
		limiter.Allow("c", "/styles", "GET")
	}
	if allowed, _ := limiter.Allow("c", "/styles", "GET"); allowed {
		t.Fatal("Expected bucket to be empty")
	}

	clock.advance(time.Second)
	if allowed, _ := limiter.Allow("c", "/styles", "GET"); !allowed {
		t.Error("Expected one token after a second")
	}
	if allowed, _ := limiter.Allow("c", "/styles", "GET"); allowed {
		t.Error("Expected refilled token to be consumed")
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("a", "/styles", "GET"); !allowed {
		t.Fatal("Expected first request for a")
	}
	if allowed, _ := limiter.Allow("b", "/styles", "GET"); !allowed {
		t.Error("Expected first request for b")
	}
	if allowed, _ := limiter.Allow("a", "/styles", "GET"); allowed {
		t.Error("Expected a to be limited")
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.2": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/render", "POST"); !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.2", "/health", "GET"); allowed {
		t.Error("Expected blacklisted client to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: false, DefaultLimit: 1})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("c", "/render", "POST"); !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(10),
	})
	defer limiter.Stop()

	// burst is a fifth of the per-minute rate
	for i := 0; i < 2; i++ {
		if allowed, _ := limiter.Allow("c", "/render", "POST"); !allowed {
			t.Fatalf("Expected render %d to be allowed", i+1)
		}
	}
	allowed, info := limiter.Allow("c", "/render", "POST")
	if allowed {
		t.Error("Expected third render to be limited")
	}
	if info.Limit != 10 {
		t.Errorf("Expected limit 10, got %d", info.Limit)
	}

	if allowed, _ := limiter.Allow("c", "/styles", "GET"); !allowed {
		t.Error("Expected reads to use the default limit")
	}
}

func TestLimiter_PrefixRoutesShareBucket(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []EndpointConfig{{Path: "/documents/", Method: "DELETE", Limit: 2, Window: time.Minute}},
	})
	defer limiter.Stop()

	limiter.Allow("c", "/documents/1", "DELETE")
	limiter.Allow("c", "/documents/2", "DELETE")
	if allowed, _ := limiter.Allow("c", "/documents/3", "DELETE"); allowed {
		t.Error("Expected the third delete to be limited across ids")
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		if allowed, _ := limiter.Allow("c", "/health", "GET"); !allowed {
			t.Fatalf("Expected health check %d to be allowed", i+1)
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if ok, _ := limiter.Allow("c", "/styles", "GET"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", got)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/styles", "GET")
	}
	clock.advance(2 * time.Hour)
	limiter.Allow("fresh", "/styles", "GET")
	limiter.cleanup()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if len(limiter.buckets) != 1 {
		t.Errorf("Expected only the fresh bucket to survive, got %d", len(limiter.buckets))
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/documents/", Method: "DELETE", Limit: 1},
		{Path: "/documents", Method: "POST", Limit: 2},
	}

	if got := MatchEndpoint("/documents", "POST", configs); got == nil || got.Limit != 2 {
		t.Errorf("Expected exact match, got %+v", got)
	}
	if got := MatchEndpoint("/documents/abc", "DELETE", configs); got == nil || got.Limit != 1 {
		t.Errorf("Expected prefix match, got %+v", got)
	}
	if got := MatchEndpoint("/documents/abc", "GET", configs); got != nil {
		t.Errorf("Expected no match, got %+v", got)
	}
	if got := MatchEndpoint("/health", "GET", configs); got == nil || got.Limit != 0 {
		t.Errorf("Expected unlimited health check, got %+v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RENDER_PER_MINUTE", "5")
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, ,10.0.0.2")

	config := LoadConfig()
	if !config.Enabled {
		t.Fatal("Expected enabled config")
	}
	if len(config.Whitelist) != 2 {
		t.Errorf("Expected 2 whitelisted IPs, got %d", len(config.Whitelist))
	}
	if got := MatchEndpoint("/render", "POST", config.EndpointConfigs); got == nil || got.Limit != 5 || got.Burst != 1 {
		t.Errorf("Unexpected render config %+v", got)
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("Expected disabled config")
	}
}
