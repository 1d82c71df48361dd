package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Closer 是一个可选接口，持有后台 goroutine 或文件句柄的场景实现它
//
// SceneManager 在切换离开该场景、以及程序退出时调用 Close。
type Closer interface {
	Close()
}
