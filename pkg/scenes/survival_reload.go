package scenes

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/systems"
)

// pollWatcher 非阻塞地取出配置目录的变更事件并重新加载
func (s *SurvivalScene) pollWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			s.handleFileChange(name)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			log.Printf("[SurvivalScene] Warning: config watcher error: %v", err)
		default:
			return
		}
	}
}

// handleFileChange 只处理当前使用的配置文件和刷怪脚本
func (s *SurvivalScene) handleFileChange(name string) {
	switch {
	case config.IsConfigFile(name) && samePath(name, s.configPath):
		if err := s.ReloadConfig(s.configPath); err != nil {
			log.Printf("[SurvivalScene] Warning: keeping previous config: %v", err)
		}
	case config.IsScriptFile(name) && s.script != nil && samePath(name, s.script.Path()):
		if err := s.ReloadScript(s.script.Path()); err != nil {
			log.Printf("[SurvivalScene] Warning: keeping previous spawn script: %v", err)
		}
	}
}

// ReloadConfig 重新读取配置文件并应用；失败时保留当前配置
func (s *SurvivalScene) ReloadConfig(path string) error {
	cfg, err := config.LoadHazardConfig(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	s.ApplyConfig(cfg)
	log.Printf("[SurvivalScene] Config reloaded from %s", path)
	return nil
}

// ReloadScript 重新编译刷怪脚本；失败时保留当前脚本
func (s *SurvivalScene) ReloadScript(path string) error {
	script, err := systems.LoadSpawnScript(path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", path, err)
	}
	s.script = script
	s.spawnSystem.SetScript(script)
	return nil
}

// ApplyConfig 把新配置分发给所有系统
// 已生成实体的步态参数不变，新参数只影响之后的行为和新生成的实体
func (s *SurvivalScene) ApplyConfig(cfg *config.HazardConfig) {
	if cfg == nil {
		return
	}
	s.cfg = cfg
	s.behaviorSystem.SetConfig(cfg)
	s.spawnSystem.SetConfig(cfg)
	s.comboTracker.SetConfig(cfg.Combo)
	s.calloutSystem.SetConfig(cfg.Effects)
	s.particleSystem.SetConfig(cfg.Effects)

	center := s.camera.Center
	s.camera = systems.NewCamera(cfg.View)
	s.camera.Center = center

	if pc, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.player); ok {
		pc.Speed = cfg.Player.Speed
	}
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
