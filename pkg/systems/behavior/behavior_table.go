package behavior

import "github.com/decker502/horde/pkg/components"

// variantBehavior 一个变体的行为表项
// explosionDamage 可选：为 nil 表示该变体不受爆炸伤害（空操作）
type variantBehavior struct {
	update          func(s *BehaviorSystem, h *hazard, dt float64)
	catchFire       func(s *BehaviorSystem, h *hazard)
	meleeHit        func(s *BehaviorSystem, h *hazard)
	explosionDamage func(s *BehaviorSystem, h *hazard)
	sprite          func(s *BehaviorSystem, h *hazard) components.HazardSprite
}

// behaviorTable 变体 → 行为
// 在 init 中填充，以打破 behaviorTable → 处理函数 → lookup → behaviorTable 的初始化循环
var behaviorTable map[components.BehaviorType]variantBehavior

func init() {
	behaviorTable = map[components.BehaviorType]variantBehavior{
		components.BehaviorWalker: {
			update:    updateWalker,
			catchFire: igniteWalker,
			meleeHit:  func(s *BehaviorSystem, h *hazard) { s.kill(h) },
			sprite:    walkerSprite,
		},
		components.BehaviorDetonator: {
			update:    updateDetonator,
			catchFire: igniteDetonator,
			meleeHit:  hitDetonator,
			sprite:    detonatorSprite,
		},
		components.BehaviorTendril: {
			update:    updateTendril,
			catchFire: igniteTendril,
			meleeHit:  func(s *BehaviorSystem, h *hazard) { s.immobilize(h, s.config.Immobilize.Duration) },
			sprite:    tendrilSprite,
		},
	}
}
