package systems

import (
	"sync"

	"github.com/jakecoffman/cp"
)

// recordingScorer 记录所有加分调用的计分器（测试用）
type recordingScorer struct {
	mu       sync.Mutex
	score    int
	currency int
	calls    []int
}

func (r *recordingScorer) IncrementScore(amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.score += amount
	r.calls = append(r.calls, amount)
}

func (r *recordingScorer) AddCurrency(amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currency += amount
}

func (r *recordingScorer) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.score
}

type comboCall struct {
	count int
	pos   cp.Vector
}

// recordingNotifier 记录连击提示调用（测试用）
type recordingNotifier struct {
	mu    sync.Mutex
	calls []comboCall
}

func (r *recordingNotifier) ShowCombo(count int, pos cp.Vector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, comboCall{count: count, pos: pos})
}

func (r *recordingNotifier) Calls() []comboCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]comboCall(nil), r.calls...)
}
