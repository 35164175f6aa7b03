package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config 是每個客戶端的 token bucket 設定
type Config struct {
	Rate  rate.Limit // 每秒補充的請求數
	Burst int

	// 超過 IdleTTL 沒出現的客戶端會被清掉
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig: 平均每秒 1 次，可連發 5 次
func DefaultConfig() Config {
	return Config{
		Rate:            1,
		Burst:           5,
		IdleTTL:         10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter 依客戶端 key (通常是 IP) 各自限流
type Limiter struct {
	config Config
	now    func() time.Time

	mu          sync.Mutex
	clients     map[string]*client
	lastCleanup time.Time
}

// New creates a per-client limiter.
func New(config Config) *Limiter {
	return newWithClock(config, time.Now)
}

func newWithClock(config Config, now func() time.Time) *Limiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = DefaultConfig().IdleTTL
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultConfig().CleanupInterval
	}
	return &Limiter{
		config:      config,
		now:         now,
		clients:     make(map[string]*client),
		lastCleanup: now(),
	}
}

// Allow 回報這個客戶端現在能不能再送一次請求
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeCleanupLocked(now)

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.config.Rate, l.config.Burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// Len 回傳目前追蹤中的客戶端數量
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// maybeCleanupLocked 移除閒置的客戶端，只刪過期的，正在連發的人 bucket 不會被重置
func (l *Limiter) maybeCleanupLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.config.IdleTTL {
			delete(l.clients, key)
		}
	}
	l.lastCleanup = now
}
