package main

import (
	"log"
	"time"

	"github.com/decker502/horde/pkg/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/jakecoffman/cp"
)

const beepSampleRate = beep.SampleRate(game.SampleRate)

// tone 终端版音效：一段固定频率的正弦波
type tone struct {
	freq     float64
	duration time.Duration
}

var tones = map[game.SoundKind]tone{
	game.SoundBatHit:  {freq: 220, duration: 60 * time.Millisecond},
	game.SoundExplode: {freq: 70, duration: 400 * time.Millisecond},
	game.SoundFlare:   {freq: 880, duration: 80 * time.Millisecond},
}

// beepSound 用 beep 扬声器播放音效，音量规则与 AudioManager 相同
type beepSound struct {
	ready  bool
	volume *game.AudioManager // 只用于计算音量（无 ebiten 音频上下文）
}

func newBeepSound(settings *game.SettingsManager) *beepSound {
	s := &beepSound{volume: game.NewAudioManager(nil, settings, nil)}
	if err := speaker.Init(beepSampleRate, beepSampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Sound] Warning: speaker unavailable: %v", err)
		return s
	}
	s.ready = true
	return s
}

// SetListener 设置听者（距离衰减）
func (s *beepSound) SetListener(listener game.PlayerLocator) {
	s.volume.SetListener(listener)
}

// PlaySound 实现 game.SoundPlayer
func (s *beepSound) PlaySound(kind game.SoundKind, pos cp.Vector) {
	if !s.ready {
		return
	}
	volume := s.volume.Volume(kind, pos)
	t, ok := tones[kind]
	if volume <= 0 || !ok {
		return
	}
	sine, err := generators.SineTone(beepSampleRate, t.freq)
	if err != nil {
		log.Printf("[Sound] Warning: %s: %v", kind, err)
		return
	}
	speaker.Play(&effects.Gain{
		Streamer: beep.Take(beepSampleRate.N(t.duration), sine),
		Gain:     volume - 1,
	})
}

// Close 关闭扬声器
func (s *beepSound) Close() {
	if s.ready {
		speaker.Close()
	}
}
