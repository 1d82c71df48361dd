package game

import (
	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// 危险实体模拟所依赖的外部协作者
//
// 模拟核心只通过这些窄接口与外界交互：读取玩家位置、加分、
// 生成/停止粒子效果、播放音效、显示连击提示。

// Scorer 计分接口，调用即生效，无返回值
type Scorer interface {
	IncrementScore(amount int)
	AddCurrency(amount int)
}

// GameOverFlag 游戏结束标志
type GameOverFlag interface {
	SetGameOver(over bool)
	IsGameOver() bool
}

// PlayerLocator 提供玩家当前位置
type PlayerLocator interface {
	PlayerPosition() cp.Vector
}

// EffectSpawner 粒子效果生成器
// 返回的句柄是发射器实体的弱引用；核心只会把它的发射速率设为 0 来停止效果，
// 对已经消失的句柄调用 SetEmitRate 是安全的空操作
type EffectSpawner interface {
	SpawnFire(pos cp.Vector, follow ecs.EntityID) ecs.EntityID
	SpawnBlood(pos cp.Vector, count int) ecs.EntityID
	SpawnExplosion(pos cp.Vector, count int) ecs.EntityID
	SetEmitRate(handle ecs.EntityID, rate float64)
}

// SoundKind 音效类型
type SoundKind int

const (
	// SoundBatHit 球棒击中
	SoundBatHit SoundKind = iota
	// SoundExplode 自爆僵尸爆炸
	SoundExplode
	// SoundFlare 发射照明弹
	SoundFlare
)

// String 返回音效名称（日志用）
func (k SoundKind) String() string {
	switch k {
	case SoundBatHit:
		return "bat_hit"
	case SoundExplode:
		return "explode"
	case SoundFlare:
		return "flare"
	default:
		return "unknown"
	}
}

// SoundPlayer 音效触发接口，调用即返回
type SoundPlayer interface {
	PlaySound(kind SoundKind, pos cp.Vector)
}

// ComboNotifier 连击提示接口
// 可能从连击链的后台结算 goroutine 调用，实现必须是并发安全的
type ComboNotifier interface {
	ShowCombo(count int, pos cp.Vector)
}
