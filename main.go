package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/decker502/horde/pkg/app"
	"github.com/decker502/horde/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	configPath := flag.String("config", "data/config/hazards.yaml", "危险实体配置文件")
	scriptPath := flag.String("script", "", "刷怪脚本（默认使用配置中的 spawn.script）")
	seed := flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	watch := flag.Bool("watch", false, "监听配置目录并热重载")
	muted := flag.Bool("mute", false, "禁用音频")
	verbose := flag.Bool("verbose", false, "输出详细日志")
	flag.Parse()

	embedded.Init(dataFS)
	embedded.SetOverrideDir(".")

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	game, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		ScriptPath: *scriptPath,
		Seed:       *seed,
		Watch:      *watch,
		Muted:      *muted,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	width, height := game.WindowSize()
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("Horde")
	ebiten.SetTPS(game.TPS())

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}
