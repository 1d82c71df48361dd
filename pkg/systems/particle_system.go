package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/jakecoffman/cp"
)

// Emitter durations for one-shot effects. Fire burns until stopped.
const (
	bloodEmitDuration     = 0.4
	explosionEmitDuration = 0.25
)

// ParticleSystem manages particle emitters and individual particles, and is
// the EffectSpawner used by the hazard simulation.
//
// The system processes particles in two phases:
//  1. Update all emitters (follow targets, bursts, rate-based spawning, duration limits)
//  2. Update all particles (velocity, drag, alpha, lifetime)
//
// An emitter's entity ID is its effect handle. Stopping an effect means setting
// its emit rate to zero; the emitter entity is reclaimed once its last particle dies.
type ParticleSystem struct {
	EntityManager *ecs.EntityManager
	rng           *rand.Rand
	cfg           config.EffectsConfig
}

// NewParticleSystem creates a new ParticleSystem instance.
func NewParticleSystem(em *ecs.EntityManager, rng *rand.Rand, cfg config.EffectsConfig) *ParticleSystem {
	return &ParticleSystem{
		EntityManager: em,
		rng:           rng,
		cfg:           cfg,
	}
}

// SetConfig applies reloaded effect tunables.
func (ps *ParticleSystem) SetConfig(cfg config.EffectsConfig) {
	ps.cfg = cfg
}

// SpawnFire starts a continuous fire emitter at pos. When follow is a live
// entity with a position, the emitter tracks it.
func (ps *ParticleSystem) SpawnFire(pos cp.Vector, follow ecs.EntityID) ecs.EntityID {
	return ps.spawnEmitter(components.EffectFire, pos, &components.EmitterComponent{
		Active:    true,
		SpawnRate: ps.cfg.FireRate,
		Follow:    follow,
	})
}

// SpawnBlood emits a burst of count blood droplets at pos.
func (ps *ParticleSystem) SpawnBlood(pos cp.Vector, count int) ecs.EntityID {
	return ps.spawnEmitter(components.EffectBlood, pos, &components.EmitterComponent{
		Active:       true,
		Duration:     bloodEmitDuration,
		SpawnRate:    float64(count) / bloodEmitDuration,
		PendingBurst: count,
	})
}

// SpawnExplosion emits a fireball of count particles at pos.
func (ps *ParticleSystem) SpawnExplosion(pos cp.Vector, count int) ecs.EntityID {
	return ps.spawnEmitter(components.EffectExplosion, pos, &components.EmitterComponent{
		Active:       true,
		Duration:     explosionEmitDuration,
		SpawnRate:    float64(count) / explosionEmitDuration,
		PendingBurst: count,
	})
}

// SetEmitRate changes an emitter's spawn rate. A rate <= 0 stops it for good.
// Stale or unknown handles are ignored.
func (ps *ParticleSystem) SetEmitRate(handle ecs.EntityID, rate float64) {
	emitter, ok := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, handle)
	if !ok {
		return
	}
	emitter.SpawnRate = math.Max(rate, 0)
	if emitter.SpawnRate == 0 {
		emitter.Active = false
		emitter.PendingBurst = 0
	}
}

func (ps *ParticleSystem) spawnEmitter(kind components.EffectKind, pos cp.Vector, emitter *components.EmitterComponent) ecs.EntityID {
	id := ps.EntityManager.CreateEntity()
	emitter.Kind = kind
	ps.EntityManager.AddComponent(id, emitter)
	ps.EntityManager.AddComponent(id, &components.PositionComponent{Vector: pos})
	return id
}

// Update processes all emitters and particles for the current frame.
// dt is the delta time in seconds since the last frame.
func (ps *ParticleSystem) Update(dt float64) {
	ps.updateEmitters(dt)
	ps.updateParticles(dt)
}

func (ps *ParticleSystem) updateEmitters(dt float64) {
	emitterEntities := ecs.GetEntitiesWith2[
		*components.EmitterComponent,
		*components.PositionComponent,
	](ps.EntityManager)

	for _, emitterID := range emitterEntities {
		emitter, _ := ecs.GetComponent[*components.EmitterComponent](ps.EntityManager, emitterID)
		position, _ := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, emitterID)

		if emitter.Follow.Valid() {
			if target, ok := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, emitter.Follow); ok {
				position.Vector = target.Vector
			}
		}

		ps.cleanupDestroyedParticles(emitter)

		if emitter.Active {
			emitter.Age += dt
			for ; emitter.PendingBurst > 0; emitter.PendingBurst-- {
				ps.spawnParticle(emitter, position.Vector)
			}
			if emitter.SpawnRate > 0 {
				interval := 1 / emitter.SpawnRate
				for emitter.NextSpawnTime <= emitter.Age {
					ps.spawnParticle(emitter, position.Vector)
					emitter.NextSpawnTime += interval
				}
			}
			if emitter.Duration > 0 && emitter.Age >= emitter.Duration {
				emitter.Active = false
			}
		}

		if !emitter.Active && len(emitter.ActiveParticles) == 0 {
			ps.EntityManager.DestroyEntity(emitterID)
		}
	}
}

func (ps *ParticleSystem) cleanupDestroyedParticles(emitter *components.EmitterComponent) {
	alive := emitter.ActiveParticles[:0]
	for _, id := range emitter.ActiveParticles {
		if ps.EntityManager.IsAlive(id) {
			alive = append(alive, id)
		}
	}
	emitter.ActiveParticles = alive
}

func (ps *ParticleSystem) updateParticles(dt float64) {
	particles := ecs.GetEntitiesWith2[
		*components.ParticleComponent,
		*components.PositionComponent,
	](ps.EntityManager)

	for _, id := range particles {
		p, _ := ecs.GetComponent[*components.ParticleComponent](ps.EntityManager, id)
		position, _ := ecs.GetComponent[*components.PositionComponent](ps.EntityManager, id)

		p.Age += dt
		if p.Age >= p.Lifetime {
			ps.EntityManager.DestroyEntity(id)
			continue
		}
		position.Vector = position.Add(p.Velocity.Mult(dt))
		p.Velocity = p.Velocity.Mult(math.Max(0, 1-p.Drag*dt))
		p.Alpha = math.Max(0, 1-p.Age/p.Lifetime)
	}
}

// spawnParticle creates one particle whose look depends on the emitter kind.
func (ps *ParticleSystem) spawnParticle(emitter *components.EmitterComponent, origin cp.Vector) {
	lifetime := ps.cfg.ParticleLifetime
	if lifetime <= 0 {
		lifetime = 0.6
	}
	angle := ps.rng.Float64() * 2 * math.Pi
	p := &components.ParticleComponent{Alpha: 1}

	switch emitter.Kind {
	case components.EffectFire:
		// 火焰向上飘（屏幕坐标 y 向下）
		p.Velocity = cp.Vector{X: (ps.rng.Float64() - 0.5) * 0.6, Y: -(0.8 + ps.rng.Float64()*0.8)}
		p.Lifetime = lifetime * (0.6 + ps.rng.Float64()*0.6)
		p.Size = 0.1 + ps.rng.Float64()*0.12
		p.Color = color.RGBA{R: 255, G: uint8(120 + ps.rng.Intn(100)), B: 0, A: 255}
		origin = origin.Add(cp.Vector{X: (ps.rng.Float64() - 0.5) * 0.8, Y: (ps.rng.Float64() - 0.5) * 0.8})
	case components.EffectBlood:
		p.Velocity = cp.ForAngle(angle).Mult(1 + ps.rng.Float64()*2)
		p.Drag = 3
		p.Lifetime = lifetime * 1.5
		p.Size = 0.06 + ps.rng.Float64()*0.06
		p.Color = color.RGBA{R: uint8(140 + ps.rng.Intn(60)), G: 0, B: 0, A: 255}
	case components.EffectExplosion:
		p.Velocity = cp.ForAngle(angle).Mult(2 + ps.rng.Float64()*8)
		p.Drag = 2.5
		p.Lifetime = lifetime * (0.8 + ps.rng.Float64())
		p.Size = 0.15 + ps.rng.Float64()*0.25
		p.Color = color.RGBA{R: 255, G: uint8(80 + ps.rng.Intn(150)), B: uint8(ps.rng.Intn(40)), A: 255}
	}

	id := ps.EntityManager.CreateEntity()
	ps.EntityManager.AddComponent(id, p)
	ps.EntityManager.AddComponent(id, &components.PositionComponent{Vector: origin})
	emitter.ActiveParticles = append(emitter.ActiveParticles, id)
	emitter.TotalLaunched++
}
