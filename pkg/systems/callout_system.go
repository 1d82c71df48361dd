package systems

import (
	"fmt"
	"sync"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/utils"
	"github.com/jakecoffman/cp"
)

type pendingCallout struct {
	count int
	pos   cp.Vector
}

// CalloutSystem 连击提示文字
//
// ShowCombo 可能由连击链的后台结算 goroutine 调用，因此只把请求放入队列；
// 实体在主循环的 Update 中创建。提示文字的过期由 LifetimeSystem 负责。
type CalloutSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.EffectsConfig

	mu      sync.Mutex
	pending []pendingCallout
}

// NewCalloutSystem 创建连击提示系统
func NewCalloutSystem(em *ecs.EntityManager, cfg config.EffectsConfig) *CalloutSystem {
	return &CalloutSystem{entityManager: em, cfg: cfg}
}

// SetConfig 热更新提示参数
func (s *CalloutSystem) SetConfig(cfg config.EffectsConfig) {
	s.cfg = cfg
}

// ShowCombo 请求在 pos 处显示 "Nx COMBO!"
func (s *CalloutSystem) ShowCombo(count int, pos cp.Vector) {
	s.mu.Lock()
	s.pending = append(s.pending, pendingCallout{count: count, pos: pos})
	s.mu.Unlock()
}

// Update 创建排队中的提示并推进已有提示的动画
func (s *CalloutSystem) Update(deltaTime float64) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, p := range pending {
		id := s.entityManager.CreateEntity()
		s.entityManager.AddComponent(id, &components.CalloutComponent{
			Text:     fmt.Sprintf("%dx COMBO!", p.count),
			Origin:   p.pos,
			Duration: s.cfg.CalloutDuration,
			Rise:     s.cfg.CalloutRise,
		})
		s.entityManager.AddComponent(id, &components.PositionComponent{Vector: p.pos})
		s.entityManager.AddComponent(id, &components.LifetimeComponent{MaxLifetime: s.cfg.CalloutDuration})
	}

	for _, id := range ecs.GetEntitiesWith2[*components.CalloutComponent, *components.PositionComponent](s.entityManager) {
		callout, _ := ecs.GetComponent[*components.CalloutComponent](s.entityManager, id)
		position, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		callout.Age += deltaTime
		progress := 1.0
		if callout.Duration > 0 {
			progress = callout.Age / callout.Duration
		}
		position.Vector = callout.Origin.Sub(cp.Vector{Y: callout.Rise * utils.EaseOutCubic(utils.Clamp(progress, 0, 1))})
	}
}

// CalloutOpacity 返回提示文字当前的不透明度 [0,1]
func CalloutOpacity(c *components.CalloutComponent) float64 {
	if c.Duration <= 0 {
		return 0
	}
	return 1 - utils.Clamp(c.Age/c.Duration, 0, 1)
}
