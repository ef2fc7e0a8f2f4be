package clock

import (
	"sync"
	"time"
)

// Clock 可注入的時間來源，計費月份與 key 到期判斷都透過它取得現在時間
type Clock interface {
	Now() time.Time
}

// Real 使用系統時間
type Real struct{}

func NewReal() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

// Fake 測試用，可手動推進
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// ProvideClock wire 用
func ProvideClock() Clock {
	return NewReal()
}
