package scenes

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/entities"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/systems"
	"github.com/decker502/horde/pkg/systems/behavior"
	"github.com/decker502/horde/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// batSwingDuration 球棒挥动动画时长（秒）
const batSwingDuration = 0.15

// SceneOptions 生存场景的构造参数
type SceneOptions struct {
	// Config 模拟参数，为 nil 时使用默认配置
	Config *config.HazardConfig
	// ConfigPath 热重载时重新读取的配置文件，为空则忽略 .yaml 变更
	ConfigPath string
	// Script 可选的刷怪脚本
	Script *systems.SpawnScript
	// Seed 随机种子（刷怪位置、变体、步态、粒子）
	Seed int64
	// Clock 连击链计时使用的时钟，为 nil 时使用系统时间
	Clock game.Clock
	// Settings 用户偏好（音量、调试叠加层），可为 nil
	Settings *game.SettingsManager
	// Audio 音效管理器，可为 nil（静音）
	Audio *game.AudioManager
	// Sound 其他音效输出（终端版），Audio 不为 nil 时忽略
	Sound game.SoundPlayer
	// Watcher 配置目录监听器，可为 nil
	Watcher *config.Watcher
}

// SurvivalScene 生存模式场景，即危险实体模拟的驱动者
//
// 每帧的执行顺序：
//  1. 玩家输入（移动、球棒、照明弹）
//  2. 延迟回调（Scheduler.Advance）
//  3. 危险实体状态机（BehaviorSystem.Update）
//  4. 刷怪、照明弹、粒子、连击提示、寿命
//  5. 清理淡出完毕的危险实体和所有标记删除的实体
//
// 游戏结束后只推进粒子和提示文字，按 R 重新开始一局。
type SurvivalScene struct {
	cfg        *config.HazardConfig
	configPath string
	script     *systems.SpawnScript
	rng        *rand.Rand
	clock      game.Clock

	gameState *game.GameState
	settings  *game.SettingsManager
	audio     *game.AudioManager
	sound     game.SoundPlayer
	watcher   *config.Watcher

	// ECS Framework and Systems（每局重建）
	entityManager    *ecs.EntityManager
	player           ecs.EntityID
	scheduler        *systems.Scheduler
	comboTracker     *systems.ComboTracker
	calloutSystem    *systems.CalloutSystem
	particleSystem   *systems.ParticleSystem
	behaviorSystem   *behavior.BehaviorSystem
	spawnSystem      *systems.SpawnSystem
	projectileSystem *systems.ProjectileSystem
	lifetimeSystem   *systems.LifetimeSystem
	renderSystem     *systems.RenderSystem

	camera      systems.Camera
	cancelSweep context.CancelFunc
	sweepDone   chan struct{} // 后台结算 goroutine 退出时关闭
	round       int
}

// NewSurvivalScene 创建生存场景并开始第一局
func NewSurvivalScene(opts SceneOptions) (*SurvivalScene, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultHazardConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hazard config: %w", err)
	}

	s := &SurvivalScene{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		script:     opts.Script,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		clock:      opts.Clock,
		gameState:  game.NewGameState(),
		settings:   opts.Settings,
		audio:      opts.Audio,
		sound:      opts.Sound,
		watcher:    opts.Watcher,
		camera:     systems.NewCamera(cfg.View),
	}
	if s.clock == nil {
		s.clock = game.NewTimeProvider()
	}
	if s.settings == nil {
		s.settings = game.NewSettingsManager(nil)
	}
	if s.audio != nil {
		s.audio.SetListener(s)
	}

	if err := s.newRound(); err != nil {
		return nil, err
	}
	log.Printf("[SurvivalScene] Created (seed: %d)", opts.Seed)
	return s, nil
}

// newRound 重建实体管理器和全部系统
func (s *SurvivalScene) newRound() error {
	s.stopSweep()
	s.gameState.Reset()

	em := ecs.NewEntityManager()
	player, err := entities.NewPlayer(em, s.cfg.Player, cp.Vector{})
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	s.entityManager = em
	s.player = player

	s.scheduler = systems.NewScheduler(em)
	s.calloutSystem = systems.NewCalloutSystem(em, s.cfg.Effects)
	s.comboTracker = systems.NewComboTracker(em, s.gameState, s.calloutSystem, s.clock, s.cfg.Combo)
	s.particleSystem = systems.NewParticleSystem(em, s.rng, s.cfg.Effects)
	s.behaviorSystem = behavior.NewBehaviorSystem(behavior.Deps{
		EntityManager: em,
		Scorer:        s.gameState,
		GameOver:      s.gameState,
		Player:        s,
		Effects:       s.particleSystem,
		Sound:         s.soundPlayer(),
		Notifier:      s.calloutSystem,
		Combos:        s.comboTracker,
		Scheduler:     s.scheduler,
		Config:        s.cfg,
	})
	s.spawnSystem = systems.NewSpawnSystem(em, s.gameState, s, s.cfg, s.rng)
	s.spawnSystem.SetScript(s.script)
	s.projectileSystem = systems.NewProjectileSystem(em, s.behaviorSystem)
	s.lifetimeSystem = systems.NewLifetimeSystem(em)
	s.renderSystem = systems.NewRenderSystem(em, s.behaviorSystem, s.gameState, s.comboTracker)
	s.renderSystem.ShowDebug = s.settings.GetSettings().ShowDebug

	s.startSweep()

	s.round++
	log.Printf("[SurvivalScene] Round %d started", s.round)
	return nil
}

// Restart 结束当前局并开始新的一局
func (s *SurvivalScene) Restart() {
	if err := s.newRound(); err != nil {
		log.Printf("[SurvivalScene] Warning: restart failed: %v", err)
	}
}

// startSweep 启动本局连击链的后台结算
func (s *SurvivalScene) startSweep() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancelSweep, s.sweepDone = cancel, done

	tracker := s.comboTracker
	go func() {
		defer close(done)
		tracker.Run(ctx)
	}()
}

// stopSweep 取消后台结算并等待 goroutine 退出
// 返回后旧一局的连击链不会再计分
func (s *SurvivalScene) stopSweep() {
	if s.cancelSweep == nil {
		return
	}
	s.cancelSweep()
	<-s.sweepDone
	s.cancelSweep, s.sweepDone = nil, nil
}

// Close 停止连击链后台结算并保存用户偏好
func (s *SurvivalScene) Close() {
	s.stopSweep()
	if err := s.settings.Save(); err != nil {
		log.Printf("[SurvivalScene] Warning: failed to save settings: %v", err)
	}
}

// PlayerPosition 实现 game.PlayerLocator
func (s *SurvivalScene) PlayerPosition() cp.Vector {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.player)
	if !ok {
		return cp.Vector{}
	}
	return pos.Vector
}

// Update 读取 ebiten 输入并推进一帧
func (s *SurvivalScene) Update(deltaTime float64) {
	s.Step(utils.ReadInput(), deltaTime)
}

// Step 用给定输入推进一帧（终端查看器和测试直接调用）
func (s *SurvivalScene) Step(in utils.InputState, deltaTime float64) {
	s.pollWatcher()
	s.camera.Center = s.PlayerPosition()

	if in.ToggleDebug {
		s.renderSystem.ShowDebug = s.settings.ToggleDebug()
	}
	if in.ToggleSound {
		enabled := s.settings.ToggleSound()
		log.Printf("[SurvivalScene] Sound enabled: %v", enabled)
	}

	if s.gameState.IsGameOver() {
		if in.Restart {
			s.Restart()
			return
		}
		// 模拟冻结，只让已有的粒子和提示文字播放完
		s.particleSystem.Update(deltaTime)
		s.calloutSystem.Update(deltaTime)
		s.lifetimeSystem.Update(deltaTime)
		s.entityManager.RemoveMarkedEntities()
		return
	}

	s.updatePlayer(in, deltaTime)

	s.scheduler.Advance(deltaTime)         // 1. 到期的延迟回调
	s.behaviorSystem.Update(deltaTime)     // 2. 危险实体状态机
	s.spawnSystem.Update(deltaTime)        // 3. 刷怪
	s.projectileSystem.Update(deltaTime)   // 4. 照明弹飞行与命中
	s.particleSystem.Update(deltaTime)     // 5. 粒子
	s.calloutSystem.Update(deltaTime)      // 6. 连击提示
	s.lifetimeSystem.Update(deltaTime)     // 7. 寿命到期
	s.behaviorSystem.CollectRemovable()    // 8. 淡出完毕的危险实体
	s.entityManager.RemoveMarkedEntities() // 9. Clean up deleted entities (always last)
}

// updatePlayer 移动玩家并处理武器
func (s *SurvivalScene) updatePlayer(in utils.InputState, deltaTime float64) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.player)
	if !ok {
		return
	}
	pc, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player)
	if !ok {
		return
	}

	if in.Move.Length() > 0 {
		pos.Vector = pos.Add(in.Move.Normalize().Mult(pc.Speed))
	}
	s.camera.Center = pos.Vector

	pc.BatCooldown = max(0, pc.BatCooldown-deltaTime)
	pc.BatSwing = max(0, pc.BatSwing-deltaTime)

	target := s.camera.ScreenToWorld(in.PointerX, in.PointerY)
	if in.Swing && pc.BatCooldown <= 0 {
		pc.BatCooldown = s.cfg.Player.BatCooldown
		pc.BatSwing = batSwingDuration
		pc.BatAngle = utils.AngleTo(pos.Vector, target)
		s.swingBat(pos.Vector)
	}
	if in.Fire {
		s.fireFlare(pos.Vector, target)
	}
}

// swingBat 对球棒范围内的所有危险实体施加近战打击
func (s *SurvivalScene) swingBat(origin cp.Vector) int {
	hits := 0
	for _, id := range s.behaviorSystem.Hazards() {
		pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !ok || origin.Distance(pos.Vector) >= s.cfg.Player.BatRange {
			continue
		}
		s.behaviorSystem.MeleeHit(id)
		hits++
	}
	return hits
}

// fireFlare 向 target 发射照明弹
func (s *SurvivalScene) fireFlare(origin, target cp.Vector) {
	if _, err := entities.NewFlare(s.entityManager, s.cfg.Player, origin, target.Sub(origin)); err != nil {
		log.Printf("[SurvivalScene] Warning: cannot fire flare: %v", err)
		return
	}
	if sound := s.soundPlayer(); sound != nil {
		sound.PlaySound(game.SoundFlare, origin)
	}
}

// soundPlayer 优先使用 ebiten 音频，nil 的 *AudioManager 不能装进接口
func (s *SurvivalScene) soundPlayer() game.SoundPlayer {
	if s.audio != nil {
		return s.audio
	}
	return s.sound
}

// Draw 以玩家为中心绘制整个场景
func (s *SurvivalScene) Draw(screen *ebiten.Image) {
	s.camera.Center = s.PlayerPosition()
	s.renderSystem.Draw(screen, s.camera, s.player)
}

// ========== 只读访问（终端查看器、测试） ==========

// EntityManager 返回当前局的实体管理器
func (s *SurvivalScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Behavior 返回当前局的行为系统
func (s *SurvivalScene) Behavior() *behavior.BehaviorSystem {
	return s.behaviorSystem
}

// GameState 返回计分与游戏结束状态
func (s *SurvivalScene) GameState() *game.GameState {
	return s.gameState
}

// Player 返回玩家实体
func (s *SurvivalScene) Player() ecs.EntityID {
	return s.player
}

// ScreenPosition 返回世界坐标 p 在当前摄像机下的屏幕坐标
// 终端查看器用它把瞄准方向转换成指针位置
func (s *SurvivalScene) ScreenPosition(p cp.Vector) (int, int) {
	s.camera.Center = s.PlayerPosition()
	x, y := s.camera.WorldToScreen(p)
	return int(math.Round(float64(x))), int(math.Round(float64(y)))
}

// Config 返回当前生效的配置
func (s *SurvivalScene) Config() *config.HazardConfig {
	return s.cfg
}

// Round 返回当前是第几局
func (s *SurvivalScene) Round() int {
	return s.round
}
