package components

import "github.com/decker502/horde/pkg/ecs"

// EffectKind 粒子效果类型
type EffectKind int

const (
	// EffectFire 附着在燃烧僵尸身上的持续火焰
	EffectFire EffectKind = iota
	// EffectBlood 死亡时的一次性血液喷溅
	EffectBlood
	// EffectExplosion 自爆僵尸爆炸时的火球
	EffectExplosion
)

// String 返回效果类型名称（日志用）
func (k EffectKind) String() string {
	switch k {
	case EffectFire:
		return "fire"
	case EffectBlood:
		return "blood"
	case EffectExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// EmitterComponent 粒子发射器
//
// 发射器本身是一个实体，EntityID 即效果句柄。核心逻辑只通过句柄
// 把 SpawnRate 设为 0 来"停止"效果；已发射的粒子继续自然消亡。
// 当发射器停止且没有存活粒子时，EffectSystem 会回收该实体。
type EmitterComponent struct {
	Kind EffectKind

	Active   bool    // 是否仍在发射
	Age      float64 // 发射器已运行时间（秒）
	Duration float64 // 发射持续时间（秒，0 = 直到被停止）

	SpawnRate     float64 // 每秒发射的粒子数（0 = 停止）
	NextSpawnTime float64 // 下一个粒子的发射时间（以 Age 计）
	PendingBurst  int     // 下一帧一次性发射的粒子数

	// 跟随的实体（火焰跟随燃烧的僵尸移动），无效 ID 表示固定位置
	Follow ecs.EntityID

	ActiveParticles []ecs.EntityID
	TotalLaunched   int
}
