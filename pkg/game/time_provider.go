package game

import (
	"sync"
	"time"
)

// Clock 提供当前时间
// 连击链的时间窗口使用真实时间，与帧率无关
type Clock interface {
	Now() time.Time
}

// TimeProvider 返回系统时间（带单调时钟读数）
type TimeProvider struct{}

// NewTimeProvider 创建系统时间源
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now 返回当前系统时间
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider 手动推进的时间源，用于测试
type MockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockTimeProvider 创建从 start 开始的模拟时间源
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

// Now 返回模拟的当前时间
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance 将模拟时间向前推进 d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
