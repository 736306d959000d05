package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomz197/vectordrift/internal/draw"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/physics"
	"github.com/tomz197/vectordrift/internal/player"
	"github.com/tomz197/vectordrift/internal/sim"
)

// beamDash is the gap between dots of an inactive laser beam.
const beamDash = 16

// Playing draws one in-game frame. alpha in [0, 1] interpolates between the
// previous and current positions of every entity. fx may be nil.
func (r *Renderer) Playing(snap *sim.Snapshot, fx *Effects, alpha float64, nowMs int64) error {
	if !r.begin() {
		return r.cw.Flush()
	}
	c := r.canvas
	c.Clear()

	r.drawArena()
	for i := range snap.Beams {
		r.drawBeam(&snap.Beams[i])
	}
	for i := range snap.Entities {
		r.drawEntity(&snap.Entities[i], alpha)
	}
	if p := &snap.Player; !p.Invulnerable || blinkFast(nowMs) {
		r.drawPlayer(p, alpha)
	}
	r.drawEffects(fx)

	c.Render(r.cw)
	c.RenderBorder(r.cw)

	r.drawPowerUpLabels(snap, alpha)
	r.drawHUD(snap)
	if snap.Paused {
		r.drawPaused()
	}
	return r.cw.Flush()
}

func blinkFast(nowMs int64) bool {
	return nowMs/100%2 == 0
}

func lerpPos(prevX, prevY, x, y, alpha float64) (float64, float64) {
	return physics.Lerp(prevX, x, alpha), physics.Lerp(prevY, y, alpha)
}

func (r *Renderer) drawArena() {
	cfg, c := r.cfg, r.canvas
	c.DrawLine(draw.Point{X: cfg.ArenaLeft, Y: cfg.GroundY}, draw.Point{X: cfg.ArenaRight, Y: cfg.GroundY})
	// dotted walls
	for y := 0.0; y < cfg.GroundY; y += 24 {
		c.SetFloat(cfg.ArenaLeft, y)
		c.SetFloat(cfg.ArenaRight, y)
	}
}

func (r *Renderer) drawBeam(b *sim.BeamView) {
	c := r.canvas
	if b.Active {
		c.DrawLine(draw.Point{X: b.X1, Y: b.Y}, draw.Point{X: b.X2, Y: b.Y})
		return
	}
	for x := b.X1; x <= b.X2; x += beamDash {
		c.SetFloat(x, b.Y)
	}
}

func (r *Renderer) drawEntity(e *sim.EntityView, alpha float64) {
	c := r.canvas
	x, y := lerpPos(e.PrevX, e.PrevY, e.X, e.Y, alpha)
	switch e.Kind {
	case entity.KindBurst:
		c.DrawLine(draw.Point{X: x, Y: y - e.Radius}, draw.Point{X: x, Y: y + e.Radius})
	case entity.KindBlocker:
		// solid until damaged
		c.DrawPolygon(draw.RegularPolygon(c.BorrowPoints(4), x, y, e.Radius, math.Pi/4), e.HP >= e.MaxHP || e.HitFlash > 0)
	case entity.KindChaser:
		c.DrawPolygon(draw.Triangle(c.BorrowPoints(3), x, y, e.Radius, false), e.HitFlash > 0)
	case entity.KindFlare:
		c.DrawCircle(x, y, e.Radius)
		c.SetFloat(x, y)
		// pull range as a sparse ring
		ring := draw.RegularPolygon(c.BorrowPoints(12), x, y, e.PullRadius, 0)
		for _, p := range ring {
			c.SetFloat(p.X, p.Y)
		}
	case entity.KindShieldDrone:
		c.DrawPolygon(draw.Diamond(c.BorrowPoints(4), x, y, e.Radius), !e.Roaming)
	case entity.KindLaserAnchor:
		c.DrawPolygon(draw.RegularPolygon(c.BorrowPoints(4), x, y, e.Radius, math.Pi/4), true)
	case entity.KindXPOrb:
		c.DrawPolygon(draw.Diamond(c.BorrowPoints(4), x, y, e.Radius*0.6), true)
	case entity.KindPowerUp:
		c.DrawPolygon(draw.RegularPolygon(c.BorrowPoints(6), x, y, e.Radius, 0), false)
	}
}

func (r *Renderer) drawPlayer(p *sim.PlayerView, alpha float64) {
	c := r.canvas
	x, y := lerpPos(p.PrevX, p.PrevY, p.X, p.Y, alpha)
	switch p.Mode {
	case player.ModeFlight:
		c.DrawPolygon(draw.Triangle(c.BorrowPoints(3), x, y, p.Radius, false), true)
	case player.ModeFalling:
		c.DrawPolygon(draw.Triangle(c.BorrowPoints(3), x, y, p.Radius, true), true)
	default:
		c.DrawPolygon(draw.Diamond(c.BorrowPoints(4), x, y, p.Radius), true)
	}
	if p.Shield {
		c.DrawCircle(x, y, p.Radius*1.8)
	}
	if p.SlamPlus && p.Mode == player.ModeFalling {
		c.DrawCircle(x, y, p.Radius*2.6)
	}
}

// powerUpLetter is the one-letter tag drawn beside a power-up.
func powerUpLetter(t entity.PowerUpType) string {
	switch t {
	case entity.PowerFlightRecharge:
		return "F"
	case entity.PowerScoreBoost:
		return "$"
	case entity.PowerShield:
		return "S"
	case entity.PowerSlamPlus:
		return "!"
	default:
		return "?"
	}
}

func (r *Renderer) drawPowerUpLabels(snap *sim.Snapshot, alpha float64) {
	for i := range snap.Entities {
		e := &snap.Entities[i]
		if e.Kind != entity.KindPowerUp {
			continue
		}
		x, y := lerpPos(e.PrevX, e.PrevY, e.X, e.Y, alpha)
		col, row := r.canvas.LogicalToTerminal(x, y)
		if col < 1 || col > r.view.Cols || row < 1 || row > r.view.Rows {
			continue
		}
		tc, tr := col+r.view.OffsetCol, row+r.view.OffsetRow+hudRows
		r.cw.WriteAt(tc, tr, draw.ColorBrightYellow+powerUpLetter(e.Power)+draw.ColorReset)
		r.canvas.MarkTextDirty(tc, tr, 1)
	}
}

func (r *Renderer) drawHUD(snap *sim.Snapshot) {
	h := &snap.HUD
	cw := r.cw
	col := max(r.view.OffsetCol, 1)

	// fixed-width fields so shrinking values leave no residue
	combo := "          "
	if h.ComboCount > 1 {
		combo = fmt.Sprintf("COMBO %-4d", h.ComboCount)
		if h.ComboMultiplier > 1 {
			combo = fmt.Sprintf("COMBO %dx%-2.0f", h.ComboCount, h.ComboMultiplier)
		}
	}
	boost := "        "
	if h.ScoreBoostActive {
		boost = fmt.Sprintf("BOOST %-2.0f", math.Ceil(h.ScoreBoostMs/1000))
	}
	line1 := fmt.Sprintf("SCORE %-9d x%-4.1f %s %s  %-9s %s",
		h.Score, h.Multiplier, combo, boost, h.Phase, clock(h.Elapsed))
	cw.WriteAt(col, 1, draw.ColorBold+line1+draw.ColorReset)

	healthColor := draw.ColorBrightGreen
	if h.Health < r.cfg.PlayerMaxHealth*0.3 {
		healthColor = draw.ColorBrightRed
	}
	var tags strings.Builder
	if snap.Player.Shield {
		tags.WriteString(" SHIELD")
	}
	if snap.Player.SlamPlus {
		tags.WriteString(" SLAM+")
	}
	line2 := fmt.Sprintf("HP %s%s%s %3.0f  FLIGHT %s%s%s  %-7s%-13s",
		healthColor, draw.Bar(h.Health/r.cfg.PlayerMaxHealth, 12), draw.ColorReset, h.Health,
		draw.ColorBrightCyan, draw.Bar(h.FlightMeter/r.cfg.FlightMeterMax, 12), draw.ColorReset,
		h.Mode, tags.String())
	cw.WriteAt(col, 2, line2)
}

// clock formats seconds as mm:ss.
func clock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func (r *Renderer) drawPaused() {
	mid := r.view.OffsetRow + hudRows + r.view.Rows/2
	r.writeColored(mid-1, draw.ColorBold, "  P A U S E D  ")
	r.writeCentered(mid+1, " P to resume, Q to quit ")
}
