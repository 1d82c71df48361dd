package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 玩家偏好设置
// 只保存偏好（音量、显示选项），从不保存模拟状态
type GameSettings struct {
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关
	Fullscreen   bool    `yaml:"fullscreen"`   // 启动时是否全屏
	ShowDebug    bool    `yaml:"showDebug"`    // 显示调试叠加层（触手碰撞线段、爆炸半径）
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		SoundVolume:  0.8,
		SoundEnabled: true,
	}
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// SettingsManager 偏好设置管理器
// gdataManager 为 nil 时进入降级模式：设置只保存在内存中
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *GameSettings
}

// NewSettingsManager 创建设置管理器并尝试加载已保存的设置
// 加载失败不是致命错误，使用默认设置并记录警告
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置，文件不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	sm.settings = DefaultSettings()
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded (sound: %v, volume: %.2f)", loaded.SoundEnabled, loaded.SoundVolume)
	return nil
}

// Save 保存设置到 gdata；降级模式下直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetSoundVolume 设置音效音量（限制在 0.0 ~ 1.0）
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// ToggleSound 切换音效开关，返回切换后的状态
func (sm *SettingsManager) ToggleSound() bool {
	sm.settings.SoundEnabled = !sm.settings.SoundEnabled
	return sm.settings.SoundEnabled
}

// ToggleDebug 切换调试叠加层，返回切换后的状态
func (sm *SettingsManager) ToggleDebug() bool {
	sm.settings.ShowDebug = !sm.settings.ShowDebug
	return sm.settings.ShowDebug
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
