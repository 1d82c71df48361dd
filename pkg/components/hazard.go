package components

import "github.com/decker502/horde/pkg/ecs"

// HazardState 危险实体的生命周期状态（由 HazardComponent 字段推导，不单独存储）
type HazardState int

const (
	// HazardMoving 存活且未着火：追踪玩家
	HazardMoving HazardState = iota
	// HazardBurning 存活且着火：向周围蔓延火焰（自爆僵尸此时处于闪烁）
	HazardBurning
	// HazardFlickering 自爆僵尸引信倒计时中
	HazardFlickering
	// HazardFading 已死亡，淡出中
	HazardFading
	// HazardRemovable 已死亡且淡出完毕，可由注册表移除
	HazardRemovable
)

// HazardComponent 所有危险实体共享的状态
//
// 不变量：
//   - Alive 只会 true → false，不会复活
//   - OnFire 只会 false → true，每个实体最多点燃一次
//   - FadeTimer、FireSpreadTimer 只减不增，并钳制在 0
type HazardComponent struct {
	Speed     float64 // 当前每帧移动距离（定身、燃烧的自爆僵尸为 0）
	BaseSpeed float64 // 变体基础速度，解除定身时恢复

	Alive  bool // 是否存活
	OnFire bool // 是否着火

	FadeTimer       float64 // 死亡淡出倒计时（秒）
	FadeDuration    float64 // 淡出总时长，用于计算透明度
	FireSpreadTimer float64 // 着火后向周围蔓延的剩余时间（秒）

	Immobilized bool // 是否被定身

	FireEffect  ecs.EntityID // 附着的火焰粒子发射器（弱引用）
	BloodEffect ecs.EntityID // 死亡时的血液粒子发射器（弱引用）
}

// State 根据字段推导当前生命周期状态
func (h *HazardComponent) State() HazardState {
	switch {
	case !h.Alive && h.FadeTimer <= 0:
		return HazardRemovable
	case !h.Alive:
		return HazardFading
	case h.OnFire:
		return HazardBurning
	default:
		return HazardMoving
	}
}

// Removable 报告实体是否可以被注册表移除：已死亡且淡出完毕
func (h *HazardComponent) Removable() bool {
	return !h.Alive && h.FadeTimer <= 0
}
