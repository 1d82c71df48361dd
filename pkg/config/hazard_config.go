package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// HazardConfig 危险实体模拟的全部可调参数
//
// 速度单位为"格/帧"（固定 60 帧每秒），时长单位为秒。
// 配置文件位置: data/config/hazards.yaml
type HazardConfig struct {
	// TickRate 每秒模拟帧数
	TickRate int `yaml:"tickRate"`

	// ProximityRadius 火焰蔓延、碰撞排斥的距离阈值（严格小于）
	ProximityRadius float64 `yaml:"proximityRadius"`

	Walker     WalkerConfig     `yaml:"walker"`
	Detonator  DetonatorConfig  `yaml:"detonator"`
	Tendril    TendrilConfig    `yaml:"tendril"`
	Combo      ComboConfig      `yaml:"combo"`
	Immobilize ImmobilizeConfig `yaml:"immobilize"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Player     PlayerConfig     `yaml:"player"`
	Effects    EffectsConfig    `yaml:"effects"`
	View       ViewConfig       `yaml:"view"`
}

// Range 闭开区间 [Min, Max)，用于随机参数
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Span 返回区间宽度
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// GaitConfig 手臂步态的随机范围（每个僵尸构造时随机一次）
type GaitConfig struct {
	ArmLength        Range   `yaml:"armLength"`
	Thickness        float64 `yaml:"thickness"`
	OscillationSpeed Range   `yaml:"oscillationSpeed"`
	ClockStart       Range   `yaml:"clockStart"`
	MinAngle         Range   `yaml:"minAngle"`
	MaxAngle         Range   `yaml:"maxAngle"`
	// MaxAngleRelative 为 true 时最大角 = 最小角 + MaxAngle 随机值（保证摆幅为正）
	MaxAngleRelative bool  `yaml:"maxAngleRelative"`
	Phase            Range `yaml:"phase"`
	FrameDelay       Range `yaml:"frameDelay"` // 帧数，取整
}

// WalkerConfig 普通行走僵尸
type WalkerConfig struct {
	Speed              float64    `yaml:"speed"`
	FadeDuration       float64    `yaml:"fadeDuration"`
	FireSpreadDuration float64    `yaml:"fireSpreadDuration"`
	Gait               GaitConfig `yaml:"gait"`
}

// DetonatorConfig 自爆僵尸
type DetonatorConfig struct {
	Speed              float64         `yaml:"speed"`
	FireSpreadDuration float64         `yaml:"fireSpreadDuration"`
	FlickerDuration    float64         `yaml:"flickerDuration"`
	CoolingDuration    float64         `yaml:"coolingDuration"`
	DelayedDetonation  float64         `yaml:"delayedDetonation"`
	Gait               GaitConfig      `yaml:"gait"`
	Explosion          ExplosionConfig `yaml:"explosion"`
}

// ExplosionConfig 爆炸结算参数
type ExplosionConfig struct {
	Radius         float64 `yaml:"radius"`         // 严格小于
	ComboThreshold int     `yaml:"comboThreshold"` // 波及数量达到该值才计连击分
	BloodCount     int     `yaml:"bloodCount"`
	ParticleCount  int     `yaml:"particleCount"`
}

// TendrilConfig 触手僵尸
type TendrilConfig struct {
	Speed              float64   `yaml:"speed"`
	FadeDuration       float64   `yaml:"fadeDuration"`
	FireSpreadDuration float64   `yaml:"fireSpreadDuration"`
	LegLength          float64   `yaml:"legLength"`
	Thickness          float64   `yaml:"thickness"`
	LegsPerSide        int       `yaml:"legsPerSide"`
	AnimationSpeed     float64   `yaml:"animationSpeed"`
	LegOffset          float64   `yaml:"legOffset"`
	SegmentRatios      []float64 `yaml:"segmentRatios"`
	SegmentAmplitudes  []float64 `yaml:"segmentAmplitudes"` // 各节摆动幅度（弧度）
	SegmentPhases      []float64 `yaml:"segmentPhases"`     // 各节相位偏移（弧度）
	Amplitude          Range     `yaml:"amplitude"`
}

// ComboConfig 连击链参数
type ComboConfig struct {
	DistanceThreshold float64 `yaml:"distanceThreshold"` // 加入已有连击链的距离（严格小于）
	Window            float64 `yaml:"window"`            // 连击链从创建到结算的时长（秒）
	SweepInterval     float64 `yaml:"sweepInterval"`     // 后台结算扫描周期（秒）
	MinChainSize      int     `yaml:"minChainSize"`      // 达到该成员数才计分并显示提示
}

// ImmobilizeConfig 定身参数
type ImmobilizeConfig struct {
	Duration float64 `yaml:"duration"`
}

// SpawnConfig 刷怪参数
type SpawnConfig struct {
	Interval float64            `yaml:"interval"` // 秒
	Margin   float64            `yaml:"margin"`   // 可视区域外的距离（格）
	Weights  map[string]float64 `yaml:"weights"`  // walker / detonator / tendril
	Script   string             `yaml:"script"`   // 可选 tengo 脚本路径
}

// PlayerConfig 玩家与武器参数
type PlayerConfig struct {
	Speed         float64 `yaml:"speed"` // 格/帧
	BatRange      float64 `yaml:"batRange"`
	BatCooldown   float64 `yaml:"batCooldown"`
	FlareSpeed    float64 `yaml:"flareSpeed"` // 格/秒
	FlareRadius   float64 `yaml:"flareRadius"`
	FlareLifetime float64 `yaml:"flareLifetime"`
}

// EffectsConfig 粒子效果与提示文字参数
type EffectsConfig struct {
	FireRate         float64 `yaml:"fireRate"`   // 每秒粒子数
	BloodCount       int     `yaml:"bloodCount"` // 击杀时的血液粒子数
	ParticleLifetime float64 `yaml:"particleLifetime"`
	CalloutDuration  float64 `yaml:"calloutDuration"`
	CalloutRise      float64 `yaml:"calloutRise"`
}

// ViewConfig 窗口与摄像机参数
type ViewConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	UnitPixels float64 `yaml:"unitPixels"` // 每格像素数
}

// Variant 名称常量（刷怪权重的键）
const (
	VariantWalker    = "walker"
	VariantDetonator = "detonator"
	VariantTendril   = "tendril"
)

// DefaultHazardConfig 返回内置默认配置
// 配置文件缺失或加载失败时使用
func DefaultHazardConfig() *HazardConfig {
	return &HazardConfig{
		TickRate:        60,
		ProximityRadius: 1,
		Walker: WalkerConfig{
			Speed:              0.02,
			FadeDuration:       4,
			FireSpreadDuration: 1,
			Gait: GaitConfig{
				ArmLength:        Range{Min: 1.2, Max: 1.6},
				Thickness:        0.1,
				OscillationSpeed: Range{Min: 0.016, Max: 0.036},
				ClockStart:       Range{Min: 0, Max: 0.4},
				MinAngle:         Range{Min: math.Pi / 12, Max: math.Pi/12 + math.Pi/16},
				MaxAngle:         Range{Min: math.Pi / 18, Max: math.Pi / 9},
				Phase:            Range{Min: 0, Max: math.Pi},
				FrameDelay:       Range{Min: 10, Max: 30},
			},
		},
		Detonator: DetonatorConfig{
			Speed:              0.015,
			FireSpreadDuration: 1,
			FlickerDuration:    2,
			CoolingDuration:    1,
			DelayedDetonation:  2,
			Gait: GaitConfig{
				ArmLength:        Range{Min: 1.2, Max: 1.6},
				Thickness:        0.1,
				OscillationSpeed: Range{Min: 0.016, Max: 0.036},
				ClockStart:       Range{Min: 0, Max: 0.4},
				MinAngle:         Range{Min: math.Pi / 12, Max: math.Pi/12 + math.Pi/16},
				MaxAngle:         Range{Min: math.Pi / 18, Max: math.Pi / 9},
				MaxAngleRelative: true,
				Phase:            Range{Min: 0, Max: math.Pi},
				FrameDelay:       Range{Min: 10, Max: 30},
			},
			Explosion: ExplosionConfig{
				Radius:         4.3,
				ComboThreshold: 3,
				BloodCount:     10,
				ParticleCount:  200,
			},
		},
		Tendril: TendrilConfig{
			Speed:              0.02,
			FadeDuration:       4,
			FireSpreadDuration: 2,
			LegLength:          1.5,
			Thickness:          0.1,
			LegsPerSide:        3,
			AnimationSpeed:     0.1,
			LegOffset:          math.Pi / 3,
			SegmentRatios:      []float64{0.3, 0.2, 0.6, 0.4, 0.5},
			SegmentAmplitudes:  []float64{math.Pi / 12, math.Pi / 16, math.Pi / 10, math.Pi / 8, math.Pi / 6},
			SegmentPhases:      []float64{0, math.Pi / 8, math.Pi / 4, math.Pi / 3, math.Pi / 2},
			Amplitude:          Range{Min: 0.9, Max: 1.1},
		},
		Combo: ComboConfig{
			DistanceThreshold: 1,
			Window:            3,
			SweepInterval:     0.1,
			MinChainSize:      2,
		},
		Immobilize: ImmobilizeConfig{Duration: 3},
		Spawn: SpawnConfig{
			Interval: 1.4,
			Margin:   2,
			Weights: map[string]float64{
				VariantWalker:    8,
				VariantDetonator: 1,
				VariantTendril:   1,
			},
		},
		Player: PlayerConfig{
			Speed:         0.1,
			BatRange:      1.5,
			BatCooldown:   0.35,
			FlareSpeed:    12,
			FlareRadius:   0.6,
			FlareLifetime: 2,
		},
		Effects: EffectsConfig{
			FireRate:         30,
			BloodCount:       10,
			ParticleLifetime: 0.6,
			CalloutDuration:  1.5,
			CalloutRise:      1.5,
		},
		View: ViewConfig{
			Width:      1280,
			Height:     720,
			UnitPixels: 32,
		},
	}
}

// LoadHazardConfig 加载危险实体配置
//
// 文件中未出现的字段保留默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/config/hazards.yaml"）
//
// 返回:
//   - *HazardConfig: 加载成功后的配置结构
//   - error: 读取、解析或验证失败时返回错误
func LoadHazardConfig(path string) (*HazardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hazard config: %w", err)
	}
	return ParseHazardConfig(data)
}

// ParseHazardConfig 从 YAML 数据解析配置（在默认配置之上覆盖）
func ParseHazardConfig(data []byte) (*HazardConfig, error) {
	config := DefaultHazardConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse hazard config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hazard config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 帧率、半径、时长为正
//   - 随机范围 Min <= Max
//   - 刷怪权重非负且至少一个为正
func (c *HazardConfig) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tickRate must be positive, got %d", c.TickRate)
	}

	positives := []struct {
		name  string
		value float64
	}{
		{"proximityRadius", c.ProximityRadius},
		{"walker.fadeDuration", c.Walker.FadeDuration},
		{"walker.fireSpreadDuration", c.Walker.FireSpreadDuration},
		{"detonator.flickerDuration", c.Detonator.FlickerDuration},
		{"detonator.coolingDuration", c.Detonator.CoolingDuration},
		{"detonator.delayedDetonation", c.Detonator.DelayedDetonation},
		{"detonator.explosion.radius", c.Detonator.Explosion.Radius},
		{"tendril.fadeDuration", c.Tendril.FadeDuration},
		{"tendril.legLength", c.Tendril.LegLength},
		{"tendril.thickness", c.Tendril.Thickness},
		{"combo.distanceThreshold", c.Combo.DistanceThreshold},
		{"combo.window", c.Combo.Window},
		{"combo.sweepInterval", c.Combo.SweepInterval},
		{"immobilize.duration", c.Immobilize.Duration},
		{"spawn.interval", c.Spawn.Interval},
		{"view.unitPixels", c.View.UnitPixels},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %.3f", p.name, p.value)
		}
	}

	if c.Walker.Speed < 0 || c.Detonator.Speed < 0 || c.Tendril.Speed < 0 {
		return fmt.Errorf("hazard speeds must not be negative")
	}

	if c.Detonator.Explosion.ComboThreshold < 1 {
		return fmt.Errorf("detonator.explosion.comboThreshold must be >= 1, got %d", c.Detonator.Explosion.ComboThreshold)
	}
	if c.Combo.MinChainSize < 1 {
		return fmt.Errorf("combo.minChainSize must be >= 1, got %d", c.Combo.MinChainSize)
	}
	if c.Tendril.LegsPerSide < 1 {
		return fmt.Errorf("tendril.legsPerSide must be >= 1, got %d", c.Tendril.LegsPerSide)
	}
	if len(c.Tendril.SegmentRatios) == 0 {
		return fmt.Errorf("tendril.segmentRatios must not be empty")
	}
	if n := len(c.Tendril.SegmentRatios); len(c.Tendril.SegmentAmplitudes) != n || len(c.Tendril.SegmentPhases) != n {
		return fmt.Errorf("tendril.segmentAmplitudes and tendril.segmentPhases must have %d entries, got %d and %d",
			n, len(c.Tendril.SegmentAmplitudes), len(c.Tendril.SegmentPhases))
	}

	if err := validateGait("walker.gait", c.Walker.Gait); err != nil {
		return err
	}
	if err := validateGait("detonator.gait", c.Detonator.Gait); err != nil {
		return err
	}
	if err := validateRange("tendril.amplitude", c.Tendril.Amplitude); err != nil {
		return err
	}

	return validateWeights(c.Spawn.Weights)
}

func validateGait(prefix string, g GaitConfig) error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"armLength", g.ArmLength},
		{"oscillationSpeed", g.OscillationSpeed},
		{"clockStart", g.ClockStart},
		{"minAngle", g.MinAngle},
		{"maxAngle", g.MaxAngle},
		{"phase", g.Phase},
		{"frameDelay", g.FrameDelay},
	}
	for _, r := range ranges {
		if err := validateRange(prefix+"."+r.name, r.r); err != nil {
			return err
		}
	}
	if g.Thickness <= 0 {
		return fmt.Errorf("%s.thickness must be positive, got %.3f", prefix, g.Thickness)
	}
	return nil
}

func validateRange(name string, r Range) error {
	if r.Min > r.Max {
		return fmt.Errorf("%s range invalid: min(%.3f) > max(%.3f)", name, r.Min, r.Max)
	}
	return nil
}

func validateWeights(weights map[string]float64) error {
	total := 0.0
	for name, w := range weights {
		switch name {
		case VariantWalker, VariantDetonator, VariantTendril:
		default:
			return fmt.Errorf("unknown spawn variant '%s'", name)
		}
		if w < 0 {
			return fmt.Errorf("spawn weight for '%s' must not be negative, got %.3f", name, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("at least one spawn weight must be positive")
	}
	return nil
}

// TickDuration 返回一帧的时长（秒）
func (c *HazardConfig) TickDuration() float64 {
	return 1 / float64(c.TickRate)
}
