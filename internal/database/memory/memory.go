// Package memory 提供與 MongoDB repository 相同語意的行程內實作：
// digest 唯一、(apiKeyID, billingMonth) 唯一、Increment 原子。供 service / middleware / handler 測試使用。
package memory

import (
	"sync"
	"time"
)

// faults 讓測試注入儲存層錯誤與延遲
type faults struct {
	mu    sync.RWMutex
	err   error
	delay time.Duration
}

// FailWith 之後所有操作回傳 err；傳 nil 恢復
func (f *faults) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// SlowDown 之後每個操作先等待 d（不理會 ctx），模擬卡住的後端；傳 0 恢復
func (f *faults) SlowDown(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

func (f *faults) fault() error {
	f.mu.RLock()
	err, delay := f.err, f.delay
	f.mu.RUnlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}
