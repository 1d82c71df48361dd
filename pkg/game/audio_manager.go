package game

import (
	"encoding/binary"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/jakecoffman/cp"
)

// SampleRate 音频采样率
const SampleRate = 44100

// hearingDistance 超过该距离（格）的音效完全听不到
const hearingDistance = 24.0

// AudioManager 音效管理器
//
// 音效在启动时用程序生成 PCM 数据（无需音频资源文件），
// 每次播放创建新的 audio.Player，使重叠的爆炸声不会互相打断。
// 音量由 SettingsManager 控制，并按与玩家的距离衰减。
// context 为 nil 时静音（测试、终端模式）。
type AudioManager struct {
	context  *audio.Context
	settings *SettingsManager
	listener PlayerLocator

	pcm    map[SoundKind][]byte
	active []*audio.Player
}

// NewAudioManager 创建音效管理器
//
// 参数：
//   - ctx: ebiten 音频上下文，可为 nil（静音）
//   - sm: 设置管理器，可为 nil（使用默认音量）
//   - listener: 听者位置（玩家），可为 nil（不做距离衰减）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager, listener PlayerLocator) *AudioManager {
	am := &AudioManager{
		context:  ctx,
		settings: sm,
		listener: listener,
		pcm:      make(map[SoundKind][]byte),
	}
	if ctx != nil {
		rng := rand.New(rand.NewSource(1))
		am.pcm[SoundBatHit] = synthesize(0.12, func(t float64) float64 {
			return (rng.Float64()*2 - 1) * math.Exp(-t*40) * 0.8
		})
		am.pcm[SoundExplode] = synthesize(0.9, func(t float64) float64 {
			rumble := math.Sin(2 * math.Pi * 55 * t)
			noise := rng.Float64()*2 - 1
			return (0.5*rumble + 0.7*noise) * math.Exp(-t*4)
		})
		am.pcm[SoundFlare] = synthesize(0.25, func(t float64) float64 {
			freq := 400 + 1600*t
			return math.Sin(2*math.Pi*freq*t) * math.Exp(-t*8) * 0.5
		})
		log.Printf("[AudioManager] Synthesized %d sounds", len(am.pcm))
	}
	return am
}

// SetListener 设置听者（用于距离衰减）
func (am *AudioManager) SetListener(listener PlayerLocator) {
	am.listener = listener
}

// PlaySound 在 pos 处播放音效
func (am *AudioManager) PlaySound(kind SoundKind, pos cp.Vector) {
	am.prune()

	volume := am.Volume(kind, pos)
	if volume <= 0 || am.context == nil {
		return
	}
	data, ok := am.pcm[kind]
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", kind)
		return
	}

	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(volume)
	player.Play()
	am.active = append(am.active, player)
}

// Volume 计算在 pos 处播放 kind 时的实际音量
// 音效关闭时为 0；超出听觉距离时为 0
func (am *AudioManager) Volume(kind SoundKind, pos cp.Vector) float64 {
	volume := 0.8
	if am.settings != nil {
		s := am.settings.GetSettings()
		if !s.SoundEnabled {
			return 0
		}
		volume = s.SoundVolume
	}
	if am.listener != nil {
		d := am.listener.PlayerPosition().Distance(pos)
		volume *= math.Max(0, 1-d/hearingDistance)
	}
	if kind == SoundExplode {
		return math.Min(1, volume*1.2)
	}
	return volume
}

// prune 释放已经播放完毕的播放器
func (am *AudioManager) prune() {
	kept := am.active[:0]
	for _, p := range am.active {
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		if err := p.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
		}
	}
	am.active = kept
}

// synthesize 按采样函数生成 16 位小端双声道 PCM 数据
func synthesize(seconds float64, sample func(t float64) float64) []byte {
	n := int(seconds * SampleRate)
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		v := sample(float64(i) / SampleRate)
		v = math.Max(-1, math.Min(1, v))
		s := uint16(int16(v * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*4:], s)
		binary.LittleEndian.PutUint16(buf[i*4+2:], s)
	}
	return buf
}
