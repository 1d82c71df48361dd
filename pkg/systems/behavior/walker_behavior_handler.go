package behavior

import "log"

// updateWalker 普通行走僵尸
//
//	存活未着火：检查邻居火源 → 推进步态 → 排斥 → 追踪玩家
//	着火：蔓延计时器内点燃邻居，计时器归零时烧死
//	死亡：淡出
func updateWalker(s *BehaviorSystem, h *hazard, dt float64) {
	switch {
	case !h.state.Alive:
		s.fadeOut(h, dt)
	case h.state.OnFire:
		if s.burn(h, dt) {
			h.state.Alive = false
			h.state.Speed = 0
			log.Printf("[BehaviorSystem] walker %v burned out", h.id)
		}
	default:
		s.igniteFromNeighbors(h)
		if h.state.OnFire {
			return
		}
		s.advanceArmClock(h)
		s.move(h)
	}
}

func igniteWalker(s *BehaviorSystem, h *hazard) {
	if h.state.OnFire || !h.state.Alive {
		return
	}
	s.ignite(h, s.config.Walker.FireSpreadDuration)
}
