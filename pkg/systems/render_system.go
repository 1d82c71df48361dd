package systems

import (
	"fmt"
	"image/color"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/config"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/font/basicfont"
)

// SpriteSource 提供危险实体的绘制描述（由 behavior.BehaviorSystem 实现）
type SpriteSource interface {
	Sprites() []components.HazardSprite
}

// HUDState 渲染 HUD 所需的只读状态
type HUDState interface {
	Score() int
	Currency() int
	IsGameOver() bool
}

// Camera 世界坐标（格）到屏幕坐标（像素）的映射
// 世界坐标 y 轴向下，与屏幕一致；Center 对应屏幕中心
type Camera struct {
	Center     cp.Vector
	UnitPixels float64
	Width      int
	Height     int
}

// NewCamera 按视图配置创建摄像机
func NewCamera(view config.ViewConfig) Camera {
	return Camera{UnitPixels: view.UnitPixels, Width: view.Width, Height: view.Height}
}

// WorldToScreen 世界坐标转屏幕坐标
func (c Camera) WorldToScreen(p cp.Vector) (float32, float32) {
	x := float64(c.Width)/2 + (p.X-c.Center.X)*c.UnitPixels
	y := float64(c.Height)/2 + (p.Y-c.Center.Y)*c.UnitPixels
	return float32(x), float32(y)
}

// ScreenToWorld 屏幕坐标转世界坐标
func (c Camera) ScreenToWorld(x, y int) cp.Vector {
	return cp.Vector{
		X: c.Center.X + (float64(x)-float64(c.Width)/2)/c.UnitPixels,
		Y: c.Center.Y + (float64(y)-float64(c.Height)/2)/c.UnitPixels,
	}
}

// Visible 报告以 p 为中心、半径 r（格）的圆是否与屏幕相交
func (c Camera) Visible(p cp.Vector, r float64) bool {
	x, y := c.WorldToScreen(p)
	pad := float32(r * c.UnitPixels)
	return x+pad >= 0 && y+pad >= 0 && x-pad <= float32(c.Width) && y-pad <= float32(c.Height)
}

var (
	backgroundColor = color.RGBA{R: 24, G: 28, B: 24, A: 255}
	playerColor     = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	batColor        = color.RGBA{R: 180, G: 140, B: 90, A: 255}
	flareColor      = color.RGBA{R: 255, G: 220, B: 120, A: 255}
	calloutColor    = color.RGBA{R: 255, G: 242, B: 0, A: 255}
	hudColor        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gameOverColor   = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	chainColor      = color.RGBA{R: 255, G: 0, B: 255, A: 160}
)

// playerRadius 玩家圆的半径（格）
const playerRadius = 0.4

// RenderSystem 绘制整个生存场景
//
// 绘制顺序（从底到顶）：背景 → 危险实体（身体、肢体）→ 粒子 → 照明弹 →
// 玩家 → 连击提示 → HUD → 调试叠加层。
// 危险实体的外观完全由 SpriteSource 提供的 HazardSprite 决定，本系统不读取
// 危险实体的状态组件。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	sprites       SpriteSource
	hud           HUDState
	combos        *ComboTracker
	face          text.Face

	ShowDebug bool
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, sprites SpriteSource, hud HUDState, combos *ComboTracker) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		sprites:       sprites,
		hud:           hud,
		combos:        combos,
		face:          text.NewGoXFace(basicfont.Face7x13),
	}
}

// Draw 绘制一帧
func (s *RenderSystem) Draw(screen *ebiten.Image, cam Camera, player ecs.EntityID) {
	screen.Fill(backgroundColor)
	s.drawHazards(screen, cam)
	s.drawParticles(screen, cam)
	s.drawFlares(screen, cam)
	s.drawPlayer(screen, cam, player)
	s.drawCallouts(screen, cam)
	s.drawHUD(screen, cam)
	if s.ShowDebug {
		s.drawDebug(screen, cam)
	}
}

func (s *RenderSystem) drawHazards(screen *ebiten.Image, cam Camera) {
	if s.sprites == nil {
		return
	}
	for _, sp := range s.sprites.Sprites() {
		if sp.Opacity <= 0 || !cam.Visible(sp.Position, sp.BodySize+3) {
			continue
		}
		limbWidth := float32(sp.LimbThickness * cam.UnitPixels)
		if limbWidth < 1 {
			limbWidth = 1
		}
		limbColor := WithOpacity(sp.LimbColor, sp.Opacity)
		for _, seg := range sp.Limbs {
			x0, y0 := cam.WorldToScreen(seg.Start)
			x1, y1 := cam.WorldToScreen(seg.End)
			vector.StrokeLine(screen, x0, y0, x1, y1, limbWidth, limbColor, true)
		}

		size := float32(sp.BodySize * cam.UnitPixels)
		x, y := cam.WorldToScreen(sp.Position)
		vector.DrawFilledRect(screen, x-size/2, y-size/2, size, size, WithOpacity(sp.Color, sp.Opacity), true)
	}
}

func (s *RenderSystem) drawParticles(screen *ebiten.Image, cam Camera) {
	for _, id := range ecs.GetEntitiesWith2[*components.ParticleComponent, *components.PositionComponent](s.entityManager) {
		p, _ := ecs.GetComponent[*components.ParticleComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if p.Alpha <= 0 || !cam.Visible(pos.Vector, p.Size) {
			continue
		}
		x, y := cam.WorldToScreen(pos.Vector)
		vector.DrawFilledCircle(screen, x, y, float32(p.Size*cam.UnitPixels), WithOpacity(p.Color, p.Alpha), true)
	}
}

func (s *RenderSystem) drawFlares(screen *ebiten.Image, cam Camera) {
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](s.entityManager) {
		proj, _ := ecs.GetComponent[*components.ProjectileComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		x, y := cam.WorldToScreen(pos.Vector)
		vector.DrawFilledCircle(screen, x, y, float32(proj.Radius*cam.UnitPixels/2), flareColor, true)
	}
}

func (s *RenderSystem) drawPlayer(screen *ebiten.Image, cam Camera, player ecs.EntityID) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, player)
	if !ok {
		return
	}
	x, y := cam.WorldToScreen(pos.Vector)
	vector.DrawFilledCircle(screen, x, y, float32(playerRadius*cam.UnitPixels), playerColor, true)

	pc, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, player)
	if !ok || pc.BatSwing <= 0 {
		return
	}
	tip := pos.Add(cp.ForAngle(pc.BatAngle).Mult(1.2))
	tx, ty := cam.WorldToScreen(tip)
	vector.StrokeLine(screen, x, y, tx, ty, float32(0.15*cam.UnitPixels), batColor, true)
}

func (s *RenderSystem) drawCallouts(screen *ebiten.Image, cam Camera) {
	for _, id := range ecs.GetEntitiesWith2[*components.CalloutComponent, *components.PositionComponent](s.entityManager) {
		c, _ := ecs.GetComponent[*components.CalloutComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		x, y := cam.WorldToScreen(pos.Vector)
		s.drawCenteredText(screen, c.Text, float64(x), float64(y), WithOpacity(calloutColor, CalloutOpacity(c)))
	}
}

func (s *RenderSystem) drawHUD(screen *ebiten.Image, cam Camera) {
	if s.hud == nil {
		return
	}
	s.drawCenteredText(screen, HUDLine(s.hud.Score(), s.hud.Currency()), float64(cam.Width)/2, 12, hudColor)
	if s.hud.IsGameOver() {
		s.drawCenteredText(screen, "GAME OVER", float64(cam.Width)/2, float64(cam.Height)/2, gameOverColor)
		s.drawCenteredText(screen, "press R to restart", float64(cam.Width)/2, float64(cam.Height)/2+20, hudColor)
	}
}

// drawDebug 连击链连线与实体计数
func (s *RenderSystem) drawDebug(screen *ebiten.Image, cam Camera) {
	if s.combos != nil {
		for _, chain := range s.combos.Chains() {
			var prev *cp.Vector
			for _, id := range chain.Members {
				pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
				if !ok {
					continue
				}
				if prev != nil {
					x0, y0 := cam.WorldToScreen(*prev)
					x1, y1 := cam.WorldToScreen(pos.Vector)
					vector.StrokeLine(screen, x0, y0, x1, y1, 2, chainColor, true)
				}
				p := pos.Vector
				prev = &p
			}
		}
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, float64(cam.Height)-20)
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, fmt.Sprintf("entities: %d  TPS: %.0f", s.entityManager.Count(), ebiten.ActualTPS()), s.face, op)
}

// drawCenteredText 绘制带黑色描边的居中文字
func (s *RenderSystem) drawCenteredText(screen *ebiten.Image, str string, centerX, centerY float64, clr color.RGBA) {
	width, height := text.Measure(str, s.face, 0)
	x := centerX - width/2
	y := centerY - height/2

	stroke := color.RGBA{A: clr.A}
	for _, o := range [][2]float64{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+o[0], y+o[1])
		op.ColorScale.ScaleWithColor(stroke)
		text.Draw(screen, str, s.face, op)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, s.face, op)
}

// HUDLine 顶部分数栏文字
func HUDLine(score, currency int) string {
	return fmt.Sprintf("SCORE %d   $%d", score, currency)
}

// WithOpacity 返回按 opacity 缩放 alpha 后的颜色（预乘 alpha）
func WithOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		return color.RGBA{}
	}
	scale := func(v uint8) uint8 { return uint8(float64(v)*opacity + 0.5) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}

// 编译期检查：GameState 满足 HUDState
var _ HUDState = (*game.GameState)(nil)
