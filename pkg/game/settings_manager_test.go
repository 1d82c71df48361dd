package game

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return manager
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	if settings.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", settings.SoundVolume)
	}
	if !settings.SoundEnabled {
		t.Error("SoundEnabled: got false, want true")
	}
	if settings.Fullscreen || settings.ShowDebug {
		t.Error("Fullscreen and ShowDebug should default to false")
	}
}

// TestSettingsManagerDegradedMode 测试 gdataManager 为 nil 时的降级场景
func TestSettingsManagerDegradedMode(t *testing.T) {
	sm := NewSettingsManager(nil)

	sm.SetSoundVolume(1.5)
	if got := sm.GetSettings().SoundVolume; got != 1.0 {
		t.Errorf("音量应被限制为 1.0, got %v", got)
	}
	sm.SetSoundVolume(-1)
	if got := sm.GetSettings().SoundVolume; got != 0 {
		t.Errorf("音量应被限制为 0, got %v", got)
	}
	if err := sm.Save(); err != nil {
		t.Errorf("降级模式下 Save 不应报错: %v", err)
	}
}

func TestSettingsLoadSave(t *testing.T) {
	manager := openTestGdata(t, "horde_test_settings")

	sm1 := NewSettingsManager(manager)
	sm1.SetSoundVolume(0.3)
	if sm1.ToggleSound() {
		t.Fatal("ToggleSound 应关闭默认开启的音效")
	}
	if !sm1.ToggleDebug() {
		t.Fatal("ToggleDebug 应打开调试叠加层")
	}
	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2 := NewSettingsManager(manager)
	settings := sm2.GetSettings()
	if settings.SoundVolume != 0.3 {
		t.Errorf("SoundVolume after reload: got %v, want 0.3", settings.SoundVolume)
	}
	if settings.SoundEnabled {
		t.Error("SoundEnabled after reload: got true, want false")
	}
	if !settings.ShowDebug {
		t.Error("ShowDebug after reload: got false, want true")
	}
}
