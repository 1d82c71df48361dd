package game

import (
	"log"
	"sync"
)

// GameState 一局游戏的共享状态：分数、货币、游戏结束标志
//
// 由场景（模拟驱动）创建并显式传给各个系统，不使用全局单例，
// 因此测试可以为每个用例构造独立的状态。
// 连击链的后台结算会从另一个 goroutine 加分，所有访问都加锁。
type GameState struct {
	mu       sync.Mutex
	score    int
	currency int
	gameOver bool
}

// NewGameState 创建一局新游戏的状态
func NewGameState() *GameState {
	return &GameState{}
}

// IncrementScore 增加分数
func (gs *GameState) IncrementScore(amount int) {
	gs.mu.Lock()
	gs.score += amount
	gs.mu.Unlock()
}

// AddCurrency 增加货币
func (gs *GameState) AddCurrency(amount int) {
	gs.mu.Lock()
	gs.currency += amount
	gs.mu.Unlock()
}

// Score 返回当前分数
func (gs *GameState) Score() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.score
}

// Currency 返回当前货币
func (gs *GameState) Currency() int {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.currency
}

// SetGameOver 设置游戏结束标志
// 结束后整个模拟冻结，直到场景调用 Reset 开始新的一局
func (gs *GameState) SetGameOver(over bool) {
	gs.mu.Lock()
	changed := gs.gameOver != over
	gs.gameOver = over
	score := gs.score
	gs.mu.Unlock()

	if changed && over {
		log.Printf("[GameState] Game over (score: %d)", score)
	}
}

// IsGameOver 返回游戏是否已结束
func (gs *GameState) IsGameOver() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.gameOver
}

// Reset 清空分数、货币和结束标志
func (gs *GameState) Reset() {
	gs.mu.Lock()
	gs.score = 0
	gs.currency = 0
	gs.gameOver = false
	gs.mu.Unlock()
}
