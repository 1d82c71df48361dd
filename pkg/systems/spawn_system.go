package systems

import (
	"log"
	"math/rand"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/entities"
	"github.com/decker502/horde/pkg/game"
	"github.com/jakecoffman/cp"
)

// SpawnSystem 定时在可视区域外生成危险实体
//
// 每隔 spawn.interval 秒在随机一条边外 margin 格处生成一个实体，
// 可视区域以玩家为中心。变体由可选脚本选择，否则按配置权重随机。
// 游戏结束后不再生成。
type SpawnSystem struct {
	entityManager *ecs.EntityManager
	gameOver      game.GameOverFlag
	player        game.PlayerLocator
	rng           *rand.Rand
	config        *config.HazardConfig
	script        *SpawnScript

	spawnTimer float64 // 距上次生成的时间
	elapsed    float64 // 本局已进行的时间
	spawned    int
}

// NewSpawnSystem 创建刷怪系统
// rng 为 nil 时使用固定种子的独立随机源
func NewSpawnSystem(em *ecs.EntityManager, gameOver game.GameOverFlag, player game.PlayerLocator, cfg *config.HazardConfig, rng *rand.Rand) *SpawnSystem {
	if cfg == nil {
		cfg = config.DefaultHazardConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	log.Printf("[SpawnSystem] Initialized with interval=%.1fs, margin=%.1f", cfg.Spawn.Interval, cfg.Spawn.Margin)
	return &SpawnSystem{
		entityManager: em,
		gameOver:      gameOver,
		player:        player,
		rng:           rng,
		config:        cfg,
	}
}

// SetConfig 热更新刷怪参数
func (s *SpawnSystem) SetConfig(cfg *config.HazardConfig) {
	if cfg != nil {
		s.config = cfg
	}
}

// SetScript 设置变体选择脚本；nil 表示只用权重
func (s *SpawnSystem) SetScript(script *SpawnScript) {
	s.script = script
	if script != nil {
		log.Printf("[SpawnSystem] Using spawn script %q", script.Path())
	}
}

// Update 累计时间并按间隔生成
func (s *SpawnSystem) Update(deltaTime float64) {
	if s.gameOver != nil && s.gameOver.IsGameOver() {
		return
	}
	s.elapsed += deltaTime
	s.spawnTimer += deltaTime

	interval := s.config.Spawn.Interval
	for interval > 0 && s.spawnTimer >= interval {
		s.spawnTimer -= interval
		s.SpawnOne()
	}
}

// SpawnOne 立即生成一个危险实体，返回其 ID（失败返回 0）
func (s *SpawnSystem) SpawnOne() ecs.EntityID {
	pos := s.edgePosition()
	variant := s.pickVariant()

	id, err := entities.NewHazard(s.entityManager, s.config, s.rng, variant, pos)
	if err != nil {
		log.Printf("[SpawnSystem] Warning: failed to spawn %s: %v", variant, err)
		return 0
	}
	s.spawned++
	return id
}

// Spawned 返回本局已生成的数量
func (s *SpawnSystem) Spawned() int {
	return s.spawned
}

// Elapsed 返回本局已进行的时间（秒）
func (s *SpawnSystem) Elapsed() float64 {
	return s.elapsed
}

// Reset 新开一局
func (s *SpawnSystem) Reset() {
	s.spawnTimer = 0
	s.elapsed = 0
	s.spawned = 0
}

// edgePosition 在以玩家为中心的可视区域某条边外 margin 处取点
func (s *SpawnSystem) edgePosition() cp.Vector {
	view := s.config.View
	halfW := float64(view.Width) / 2 / view.UnitPixels
	halfH := float64(view.Height) / 2 / view.UnitPixels
	margin := s.config.Spawn.Margin

	center := cp.Vector{}
	if s.player != nil {
		center = s.player.PlayerPosition()
	}

	var offset cp.Vector
	switch s.rng.Intn(4) {
	case 0: // 上
		offset = cp.Vector{X: s.between(-halfW, halfW), Y: halfH + margin}
	case 1: // 右
		offset = cp.Vector{X: halfW + margin, Y: s.between(-halfH, halfH)}
	case 2: // 下
		offset = cp.Vector{X: s.between(-halfW, halfW), Y: -halfH - margin}
	default: // 左
		offset = cp.Vector{X: -halfW - margin, Y: s.between(-halfH, halfH)}
	}
	return center.Add(offset)
}

func (s *SpawnSystem) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// pickVariant 脚本优先，脚本出错或返回未知变体时回退到权重
func (s *SpawnSystem) pickVariant() string {
	roll := s.rng.Float64()
	if s.script != nil {
		variant, err := s.script.Pick(roll, s.elapsed, s.hazardCount())
		switch {
		case err != nil:
			log.Printf("[SpawnSystem] Warning: spawn script failed: %v", err)
		case isKnownVariant(variant):
			return variant
		case variant != "":
			log.Printf("[SpawnSystem] Warning: spawn script returned unknown variant %q", variant)
		}
	}
	return weightedVariant(s.config.Spawn.Weights, roll)
}

func (s *SpawnSystem) hazardCount() int {
	return len(ecs.GetEntitiesWith1[*components.HazardComponent](s.entityManager))
}

func isKnownVariant(v string) bool {
	switch v {
	case config.VariantWalker, config.VariantDetonator, config.VariantTendril:
		return true
	}
	return false
}

// weightedVariant 按权重把 roll ∈ [0,1) 映射到变体
// 变体按 detonator、tendril、walker 的固定顺序累加，默认权重下与
// "10% 自爆、10% 触手、其余行走" 的分段一致
func weightedVariant(weights map[string]float64, roll float64) string {
	order := []string{config.VariantDetonator, config.VariantTendril, config.VariantWalker}

	total := 0.0
	for _, name := range order {
		if w := weights[name]; w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return config.VariantWalker
	}

	acc := 0.0
	for _, name := range order {
		w := weights[name]
		if w <= 0 {
			continue
		}
		acc += w / total
		if roll < acc {
			return name
		}
	}
	return config.VariantWalker
}
