package systems

import (
	"log"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
)

// Igniter 危险实体的点燃入口（由 behavior.BehaviorSystem 实现）
type Igniter interface {
	CatchFire(id ecs.EntityID)
}

// ProjectileSystem 移动照明弹并处理命中
//
// 照明弹每帧按速度移动，接触到（距离严格小于命中半径）第一个存活的
// 危险实体时调用其点燃入口，然后销毁自身。
type ProjectileSystem struct {
	entityManager *ecs.EntityManager
	igniter       Igniter
}

// NewProjectileSystem 创建照明弹系统
func NewProjectileSystem(em *ecs.EntityManager, igniter Igniter) *ProjectileSystem {
	return &ProjectileSystem{
		entityManager: em,
		igniter:       igniter,
	}
}

// Update 移动所有照明弹并检测命中
func (s *ProjectileSystem) Update(deltaTime float64) {
	flares := ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.entityManager)
	if len(flares) == 0 {
		return
	}
	hazards := ecs.GetEntitiesWith2[*components.HazardComponent, *components.PositionComponent](s.entityManager)

	for _, flareID := range flares {
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, flareID)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, flareID)
		pos.Vector = pos.Add(proj.Velocity.Mult(deltaTime))

		for _, hazardID := range hazards {
			state, _ := ecs.GetComponent[*components.HazardComponent](s.entityManager, hazardID)
			hpos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, hazardID)
			if !state.Alive || pos.Distance(hpos.Vector) >= proj.Radius {
				continue
			}
			if s.igniter != nil {
				s.igniter.CatchFire(hazardID)
			}
			log.Printf("[ProjectileSystem] Flare %v hit %v", flareID, hazardID)
			s.entityManager.DestroyEntity(flareID)
			break
		}
	}
}
