// horde-tui 在终端里运行同一套危险实体模拟
//
// 用法：
//
//	go run ./cmd/horde-tui [-config data/config/hazards.yaml] [-seed 42] [-log horde.log]
//
// 操作：方向键移动，空格挥棒，f 向最近的移动方向发射照明弹，
// m 开关音效，r 重新开始，q / Esc 退出。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/horde/pkg/app"
	"github.com/decker502/horde/pkg/embedded"
	"github.com/decker502/horde/pkg/game"
	"github.com/decker502/horde/pkg/scenes"
	"github.com/decker502/horde/pkg/utils"
	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
)

// moveHoldTicks 终端没有按键抬起事件，一次方向键按下持续移动的帧数
const moveHoldTicks = 8

var (
	configPath = flag.String("config", "data/config/hazards.yaml", "危险实体配置文件")
	scriptPath = flag.String("script", "", "刷怪脚本（默认使用配置中的 spawn.script）")
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	logFile    = flag.String("log", "", "日志输出文件（终端被占用，默认丢弃）")
	mute       = flag.Bool("mute", false, "禁用音效")
)

// viewer 终端查看器状态
type viewer struct {
	screen tcell.Screen
	scene  *scenes.SurvivalScene
	sound  *beepSound
	dt     float64

	move      cp.Vector
	moveTicks int
	facing    cp.Vector
	pending   utils.InputState
}

func main() {
	flag.Parse()

	if err := setupLog(*logFile); err != nil {
		fmt.Fprintf(os.Stderr, "horde-tui: %v\n", err)
		os.Exit(1)
	}

	v, err := newViewer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "horde-tui: %v\n", err)
		os.Exit(1)
	}
	defer v.close()

	v.run()
}

func setupLog(path string) error {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return nil
}

func newViewer() (*viewer, error) {
	// 终端版不嵌入数据，从当前目录读取（在仓库根目录运行）
	embedded.Init(os.DirFS("."))

	cfg, err := app.LoadHazardConfig(*configPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	path := *scriptPath
	if path == "" {
		path = cfg.Spawn.Script
	}
	script, err := app.LoadSpawnScript(path)
	if err != nil {
		return nil, fmt.Errorf("刷怪脚本加载失败: %w", err)
	}

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	settings := game.NewSettingsManager(nil)
	opts := scenes.SceneOptions{
		Config:   cfg,
		Script:   script,
		Seed:     s,
		Settings: settings,
	}
	var sound *beepSound
	if !*mute {
		sound = newBeepSound(settings)
		opts.Sound = sound
	}
	scene, err := scenes.NewSurvivalScene(opts)
	if err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}
	if sound != nil {
		sound.SetListener(scene)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		scene.Close()
		return nil, err
	}
	if err := screen.Init(); err != nil {
		scene.Close()
		return nil, err
	}

	return &viewer{
		screen: screen,
		scene:  scene,
		sound:  sound,
		dt:     cfg.TickDuration(),
		facing: cp.Vector{X: 1},
	}, nil
}

func (v *viewer) close() {
	v.screen.Fini()
	v.scene.Close()
	if v.sound != nil {
		v.sound.Close()
	}
}

func (v *viewer) run() {
	ticker := time.NewTicker(time.Duration(v.dt * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go pumpEvents(v.screen.PollEvent, eventChan)

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !v.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			v.step()
			width, height := v.screen.Size()
			blit(v.screen, rasterize(v.scene, width, height))
		}
	}
}

// pumpEvents 把终端事件转发到 ch，poll 返回 nil（屏幕已结束）时关闭 ch 并退出
func pumpEvents(poll func() tcell.Event, ch chan<- tcell.Event) {
	defer close(ch)
	for {
		ev := poll()
		if ev == nil {
			return
		}
		ch <- ev
	}
}

// handleEvent 把按键累积到下一帧的输入里，返回 false 表示退出
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.hold(cp.Vector{Y: -1})
		case tcell.KeyDown:
			v.hold(cp.Vector{Y: 1})
		case tcell.KeyLeft:
			v.hold(cp.Vector{X: -1})
		case tcell.KeyRight:
			v.hold(cp.Vector{X: 1})
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.pending.Swing = true
			case 'f':
				v.pending.Fire = true
			case 'r':
				v.pending.Restart = true
			case 'm':
				v.pending.ToggleSound = true
			}
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// hold 开始朝 dir 移动，同时更新照明弹的发射方向
func (v *viewer) hold(dir cp.Vector) {
	v.move = dir
	v.moveTicks = moveHoldTicks
	v.facing = dir
}

// step 用累积的输入推进一帧
func (v *viewer) step() {
	in := v.pending
	v.pending = utils.InputState{}

	if v.moveTicks > 0 {
		in.Move = v.move
		v.moveTicks--
	}
	// 瞄准点在玩家前方，转换成摄像机下的指针坐标
	target := v.scene.PlayerPosition().Add(v.facing.Mult(5))
	in.PointerX, in.PointerY = v.scene.ScreenPosition(target)

	v.scene.Step(in, v.dt)
}
