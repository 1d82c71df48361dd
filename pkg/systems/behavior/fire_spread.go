package behavior

import "github.com/decker502/horde/pkg/utils"

// 邻近效果：火焰蔓延与碰撞排斥
//
// 每个实体每帧与所有兄弟实体比较一次（O(n²)），距离阈值一律为严格小于。

// forEachSibling 按注册顺序遍历除 h 以外的危险实体，fn 返回 false 时停止
func (s *BehaviorSystem) forEachSibling(h *hazard, fn func(other *hazard) bool) {
	for _, id := range s.queryHazards() {
		if id == h.id {
			continue
		}
		other, ok := s.lookup(id)
		if !ok {
			continue
		}
		if !fn(other) {
			return
		}
	}
}

// igniteFromNeighbors 任一距离内的兄弟实体着火（无论死活）时自身起火
func (s *BehaviorSystem) igniteFromNeighbors(h *hazard) {
	if h.state.OnFire || !h.state.Alive {
		return
	}
	radius := s.config.ProximityRadius
	s.forEachSibling(h, func(other *hazard) bool {
		if other.state.OnFire && h.pos.Distance(other.pos.Vector) < radius {
			h.behavior.catchFire(s, h)
			return false
		}
		return true
	})
}

// spreadFire 点燃距离内所有存活的兄弟实体
func (s *BehaviorSystem) spreadFire(h *hazard) {
	radius := s.config.ProximityRadius
	s.forEachSibling(h, func(other *hazard) bool {
		if other.state.Alive && h.pos.Distance(other.pos.Vector) < radius {
			other.behavior.catchFire(s, other)
		}
		return true
	})
}

// burn 燃烧中的实体在蔓延计时器为正时点燃邻居
// 计时器在本帧归零时返回 true
func (s *BehaviorSystem) burn(h *hazard, dt float64) bool {
	if h.state.FireSpreadTimer <= 0 {
		h.state.FireSpreadTimer = 0
		return false
	}
	s.spreadFire(h)
	h.state.FireSpreadTimer -= dt
	if h.state.FireSpreadTimer <= 0 {
		h.state.FireSpreadTimer = 0
		return true
	}
	return false
}

// avoidCollisions 依次远离距离内的每个存活兄弟实体
// 每次位移后用新位置判断下一个邻居，结果与注册顺序有关
func (s *BehaviorSystem) avoidCollisions(h *hazard) {
	radius := s.config.ProximityRadius
	s.forEachSibling(h, func(other *hazard) bool {
		if other.state.Alive && h.pos.Distance(other.pos.Vector) < radius {
			away := utils.Direction(other.pos.Vector, h.pos.Vector)
			h.pos.Vector = h.pos.Add(away.Mult(h.state.Speed))
		}
		return true
	})
}

// seekPlayer 向玩家移动 speed 距离
func (s *BehaviorSystem) seekPlayer(h *hazard) {
	dir := utils.Direction(h.pos.Vector, s.playerPosition())
	h.pos.Vector = h.pos.Add(dir.Mult(h.state.Speed))
}

// move 先排斥后追踪
func (s *BehaviorSystem) move(h *hazard) {
	if h.state.Immobilized {
		return
	}
	s.avoidCollisions(h)
	s.seekPlayer(h)
}

// advanceArmClock 推进手臂动画时钟；起步前先消耗帧延迟
func (s *BehaviorSystem) advanceArmClock(h *hazard) {
	rig, ok := s.armRig(h)
	if !ok || h.state.Immobilized {
		return
	}
	if rig.FrameDelay > 0 {
		rig.FrameDelay--
		return
	}
	rig.Time += rig.OscillationSpeed
}
