package main

import (
	"fmt"
	"math"

	"github.com/decker502/horde/pkg/components"
	"github.com/decker502/horde/pkg/ecs"
	"github.com/decker502/horde/pkg/scenes"
	"github.com/decker502/horde/pkg/systems"
	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"
)

// 终端字符单元约为 1:2，横向每格两列
const (
	colsPerUnit = 2
	rowsPerUnit = 1
)

var (
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleGameOver  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePlayer    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleWalker    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleDetonator = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFlash     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleTendril   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleLimb      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFire      = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleDead      = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleFlare     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCallout   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// cell 一个终端字符格
type cell struct {
	r     rune
	style tcell.Style
}

// frame 一帧的字符网格，行 0 为 HUD
type frame struct {
	width, height int
	cells         []cell
}

func newFrame(width, height int) *frame {
	f := &frame{width: width, height: height, cells: make([]cell, width*height)}
	for i := range f.cells {
		f.cells[i] = cell{r: ' ', style: tcell.StyleDefault}
	}
	return f
}

func (f *frame) set(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.cells[y*f.width+x] = cell{r: r, style: style}
}

func (f *frame) at(x, y int) cell {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return cell{}
	}
	return f.cells[y*f.width+x]
}

func (f *frame) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		f.set(x+i, y, r, style)
	}
}

func (f *frame) centeredText(y int, s string, style tcell.Style) {
	f.text((f.width-len([]rune(s)))/2, y, s, style)
}

// project 世界坐标转字符格坐标（以玩家为中心）
func (f *frame) project(center, p cp.Vector) (int, int) {
	x := float64(f.width)/2 + (p.X-center.X)*colsPerUnit
	y := float64(f.height)/2 + (p.Y-center.Y)*rowsPerUnit
	return int(math.Floor(x)), int(math.Floor(y))
}

// rasterize 把场景画进字符网格
// 绘制顺序与图形版一致：肢体 → 身体 → 照明弹 → 玩家 → 连击提示 → HUD
func rasterize(scene *scenes.SurvivalScene, width, height int) *frame {
	f := newFrame(width, height)
	em := scene.EntityManager()
	center := scene.PlayerPosition()

	sprites := scene.Behavior().Sprites()
	for _, sp := range sprites {
		if sp.Opacity <= 0 {
			continue
		}
		for _, seg := range sp.Limbs {
			drawSegment(f, center, seg.Start, seg.End, styleLimb)
		}
	}
	for _, sp := range sprites {
		if sp.Opacity <= 0 {
			continue
		}
		r, style := hazardGlyph(em, sp)
		x, y := f.project(center, sp.Position)
		f.set(x, y, r, style)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		x, y := f.project(center, pos.Vector)
		f.set(x, y, '+', styleFlare)
	}

	px, py := f.project(center, center)
	f.set(px, py, '@', stylePlayer)

	for _, id := range ecs.GetEntitiesWith2[*components.CalloutComponent, *components.PositionComponent](em) {
		c, _ := ecs.GetComponent[*components.CalloutComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		x, y := f.project(center, pos.Vector)
		f.text(x-len(c.Text)/2, y, c.Text, styleCallout)
	}

	state := scene.GameState()
	hud := fmt.Sprintf("%s   hazards %d", systems.HUDLine(state.Score(), state.Currency()), len(sprites))
	f.text(0, 0, hud, styleHUD)
	if state.IsGameOver() {
		f.centeredText(height/2-2, "GAME OVER", styleGameOver)
		f.centeredText(height/2-1, "press r to restart", styleHUD)
	}
	return f
}

// hazardGlyph 变体字母；着火为 '*'，死亡为 'x'
func hazardGlyph(em *ecs.EntityManager, sp components.HazardSprite) (rune, tcell.Style) {
	if h, ok := ecs.GetComponent[*components.HazardComponent](em, sp.Entity); ok {
		switch {
		case sp.Exploding:
			return '#', styleFire
		case !h.Alive:
			return 'x', styleDead
		case h.OnFire:
			return '*', styleFire
		}
	}
	switch sp.Variant {
	case components.BehaviorDetonator:
		if sp.Flash {
			return 'D', styleFlash
		}
		return 'D', styleDetonator
	case components.BehaviorTendril:
		return 'T', styleTendril
	default:
		return 'W', styleWalker
	}
}

// drawSegment 沿线段按字符格步进画点
func drawSegment(f *frame, center, a, b cp.Vector, style tcell.Style) {
	ax, ay := f.project(center, a)
	bx, by := f.project(center, b)
	steps := max(abs(bx-ax), abs(by-ay))
	if steps == 0 {
		f.set(ax, ay, '.', style)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := ax + int(math.Round(float64(bx-ax)*t))
		y := ay + int(math.Round(float64(by-ay)*t))
		f.set(x, y, '.', style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// blit 把字符网格写到终端
func blit(screen tcell.Screen, f *frame) {
	screen.Clear()
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			c := f.at(x, y)
			screen.SetContent(x, y, c.r, nil, c.style)
		}
	}
	screen.Show()
}
