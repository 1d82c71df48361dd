package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

func newTestParticleSystem() (*ParticleSystem, *ecs.EntityManager) {
	em := ecs.NewEntityManager()
	return NewParticleSystem(em, rand.New(rand.NewSource(1)), config.DefaultHazardConfig().Effects), em
}

func TestParticleSystemBurst(t *testing.T) {
	ps, em := newTestParticleSystem()

	handle := ps.SpawnExplosion(cp.Vector{X: 3, Y: 4}, 200)
	ps.Update(1.0 / 60)

	emitter, ok := ecs.GetComponent[*components.EmitterComponent](em, handle)
	if !ok {
		t.Fatal("emitter should exist after first update")
	}
	if emitter.TotalLaunched < 200 {
		t.Errorf("explosion burst should launch at least 200 particles, got %d", emitter.TotalLaunched)
	}
}

func TestParticleSystemStopFire(t *testing.T) {
	ps, em := newTestParticleSystem()

	target := em.CreateEntity()
	em.AddComponent(target, &components.PositionComponent{Vector: cp.Vector{X: 1, Y: 1}})
	handle := ps.SpawnFire(cp.Vector{X: 1, Y: 1}, target)

	// 火焰跟随目标移动
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, target)
	pos.Vector = cp.Vector{X: 5, Y: 5}
	for i := 0; i < 30; i++ {
		ps.Update(1.0 / 60)
	}
	emitterPos, _ := ecs.GetComponent[*components.PositionComponent](em, handle)
	if emitterPos.Vector != (cp.Vector{X: 5, Y: 5}) {
		t.Errorf("fire emitter should follow its target, at %v", emitterPos.Vector)
	}

	emitter, _ := ecs.GetComponent[*components.EmitterComponent](em, handle)
	if emitter.TotalLaunched == 0 {
		t.Fatal("fire should have launched particles")
	}

	ps.SetEmitRate(handle, 0)
	launched := emitter.TotalLaunched
	// 停止后不再发射；粒子全部消亡后发射器被回收
	for i := 0; i < 240; i++ {
		ps.Update(1.0 / 60)
		em.RemoveMarkedEntities()
	}
	if emitter.TotalLaunched != launched {
		t.Errorf("stopped emitter launched %d more particles", emitter.TotalLaunched-launched)
	}
	if em.IsAlive(handle) {
		t.Error("stopped emitter should be reclaimed after its particles die")
	}
}

func TestParticleSystemStaleHandle(t *testing.T) {
	ps, em := newTestParticleSystem()
	handle := ps.SpawnBlood(cp.Vector{}, 10)
	em.DestroyEntity(handle)
	em.RemoveMarkedEntities()

	// 对已回收的句柄调用是安全的空操作
	ps.SetEmitRate(handle, 0)
}
