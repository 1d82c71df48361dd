package systems

import (
	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
)

// LifetimeSystem 回收寿命到期的实体（照明弹、连击提示）
//
// 危险实体不使用寿命组件，它们由淡出计时和 CollectRemovable 回收。
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
}

// NewLifetimeSystem 创建寿命系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{entityManager: em}
}

// Update 累积存在时间，到期的实体标记删除，返回本帧到期的数量
func (s *LifetimeSystem) Update(deltaTime float64) int {
	expired := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if lifetime.IsExpired {
			continue
		}
		lifetime.CurrentLifetime += max(0, deltaTime)
		if lifetime.CurrentLifetime < lifetime.MaxLifetime {
			continue
		}
		lifetime.IsExpired = true
		s.entityManager.DestroyEntity(id)
		expired++
	}
	return expired
}
