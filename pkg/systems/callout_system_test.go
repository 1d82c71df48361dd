package systems

import (
	"testing"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

func TestCalloutSystemShowCombo(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultHazardConfig().Effects
	callouts := NewCalloutSystem(em, cfg)
	lifetime := NewLifetimeSystem(em)

	callouts.ShowCombo(4, cp.Vector{X: 2, Y: 3})
	if n := len(ecs.GetEntitiesWith1[*components.CalloutComponent](em)); n != 0 {
		t.Fatalf("提示应在 Update 中创建, got %d", n)
	}

	callouts.Update(0)
	ids := ecs.GetEntitiesWith1[*components.CalloutComponent](em)
	if len(ids) != 1 {
		t.Fatalf("expected 1 callout, got %d", len(ids))
	}
	callout, _ := ecs.GetComponent[*components.CalloutComponent](em, ids[0])
	if callout.Text != "4x COMBO!" {
		t.Errorf("Text = %q, want %q", callout.Text, "4x COMBO!")
	}
	if CalloutOpacity(callout) != 1 {
		t.Errorf("新提示应完全不透明, got %v", CalloutOpacity(callout))
	}

	// 上浮
	callouts.Update(cfg.CalloutDuration / 2)
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, ids[0])
	if pos.Y >= 3 {
		t.Errorf("提示应向上漂浮, y = %v", pos.Y)
	}

	// 到期后由 LifetimeSystem 移除
	lifetime.Update(cfg.CalloutDuration)
	em.RemoveMarkedEntities()
	if em.IsAlive(ids[0]) {
		t.Error("过期的提示应被移除")
	}
}
