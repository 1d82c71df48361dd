package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages the current active scene and handles scene transitions.
// It acts as a state machine for different game scenes.
type SceneManager struct {
	currentScene Scene
}

// NewSceneManager creates and returns a new SceneManager instance.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo changes the current active scene to the provided scene.
// 离开的场景如果实现了 Closer，会先被关闭
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene == scene {
		return
	}
	sm.closeCurrent()
	sm.currentScene = scene
}

// GetCurrentScene 返回当前场景
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Close 关闭当前场景（程序退出时调用）
func (sm *SceneManager) Close() {
	sm.closeCurrent()
	sm.currentScene = nil
}

func (sm *SceneManager) closeCurrent() {
	if closer, ok := sm.currentScene.(Closer); ok {
		closer.Close()
		log.Printf("[SceneManager] Closed scene %T", sm.currentScene)
	}
}

// Update updates the current scene's logic.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the current scene to the provided screen.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
