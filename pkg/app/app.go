// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来：加载配置与刷怪脚本、
// 打开用户偏好存储、创建音频上下文和生存场景。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"

	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/embedded"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/scenes"
	"github.com/decker502/horde/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 危险实体配置文件（"data/" 开头，磁盘文件优先于嵌入版本）
	ConfigPath string
	// ScriptPath 刷怪脚本，为空时使用配置中的 spawn.script
	ScriptPath string
	// Seed 随机种子
	Seed int64
	// Watch 监听配置目录并热重载
	Watch bool
	// Muted 禁用音频上下文（无声卡的环境）
	Muted bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	watcher                  *config.Watcher
	width, height            int
	tickRate                 int
	tickDuration             float64
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	hazardConfig, err := LoadHazardConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	scriptPath := cfg.ScriptPath
	if scriptPath == "" {
		scriptPath = hazardConfig.Spawn.Script
	}
	script, err := LoadSpawnScript(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("刷怪脚本加载失败: %w", err)
	}

	// 用户偏好（音量、调试叠加层）
	var gdataManager *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: "horde"}); err != nil {
		log.Printf("[App] Warning: preferences storage unavailable: %v", err)
	} else {
		gdataManager = m
	}
	settings := game.NewSettingsManager(gdataManager)

	var audioManager *game.AudioManager
	if !cfg.Muted {
		audioManager = game.NewAudioManager(audio.NewContext(game.SampleRate), settings, nil)
		log.Printf("[App] AudioManager initialized")
	}

	var watcher *config.Watcher
	if cfg.Watch {
		watcher = newWatcher(cfg.ConfigPath, scriptPath)
	}

	// 热重载只对磁盘上的文件生效
	diskConfig, _ := embedded.DiskPath(cfg.ConfigPath)
	scene, err := scenes.NewSurvivalScene(scenes.SceneOptions{
		Config:     hazardConfig,
		ConfigPath: diskConfig,
		Script:     script,
		Seed:       cfg.Seed,
		Settings:   settings,
		Audio:      audioManager,
		Watcher:    watcher,
	})
	if err != nil {
		if watcher != nil {
			_ = watcher.Close()
		}
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		watcher:      watcher,
		width:        hazardConfig.View.Width,
		height:       hazardConfig.View.Height,
		tickRate:     hazardConfig.TickRate,
		tickDuration: hazardConfig.TickDuration(),
		verbose:      cfg.Verbose,
	}, nil
}

// LoadHazardConfig 读取配置：磁盘文件优先，其次嵌入版本，都没有时使用默认值
func LoadHazardConfig(path string) (*config.HazardConfig, error) {
	if path == "" {
		return config.DefaultHazardConfig(), nil
	}
	if full, ok := embedded.DiskPath(path); ok {
		log.Printf("[Config] 加载配置文件: %s", full)
		return config.LoadHazardConfig(full)
	}
	data, err := embedded.ReadFile(path)
	if err != nil {
		log.Printf("[Config] Warning: %s not found (%v), using defaults", path, err)
		return config.DefaultHazardConfig(), nil
	}
	log.Printf("[Config] 加载嵌入配置: %s", path)
	return config.ParseHazardConfig(data)
}

// LoadSpawnScript 读取刷怪脚本，path 为空时返回 nil（使用权重表）
func LoadSpawnScript(path string) (*systems.SpawnScript, error) {
	if path == "" {
		return nil, nil
	}
	if full, ok := embedded.DiskPath(path); ok {
		return systems.LoadSpawnScript(full)
	}
	src, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spawn script: %w", err)
	}
	return systems.CompileSpawnScript(src)
}

// newWatcher 监听配置文件和脚本所在的磁盘目录
func newWatcher(paths ...string) *config.Watcher {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		full, ok := embedded.DiskPath(p)
		if !ok {
			continue
		}
		dir := filepath.Dir(full)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		log.Printf("[App] Warning: -watch ignored, no config files on disk")
		return nil
	}
	w, err := config.NewWatcher(dirs...)
	if err != nil {
		log.Printf("[App] Warning: config watcher unavailable: %v", err)
		return nil
	}
	return w
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			// 退出全屏
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
		a.settings.SetFullscreen(ebiten.IsFullscreen())
	}

	a.sceneManager.Update(a.tickDuration)
	return nil
}

// Draw 绘制游戏画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// WindowSize 返回配置的窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.width, a.height
}

// TPS 返回配置的模拟帧率
func (a *App) TPS() int {
	return a.tickRate
}

// Close 关闭场景（保存偏好）和配置监听器
func (a *App) Close() {
	a.sceneManager.Close()
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("[App] Warning: failed to close watcher: %v", err)
		}
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
