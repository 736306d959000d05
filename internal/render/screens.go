package render

import (
	"fmt"
	"strings"

	"github.com/tomz197/vectordrift/internal/draw"
	"github.com/tomz197/vectordrift/internal/gamestate"
)

// figlet "small" font
var titleArt = []string{
	` __   _____ ___ _____ ___  ___   ___  ___ ___ ___ _____ `,
	` \ \ / / __/ __|_   _/ _ \| _ \ |   \| _ \_ _| __|_   _|`,
	`  \ V /| _| (__  | || (_) |   / | |) |   /| || _|  | |  `,
	`   \_/ |___\___| |_| \___/|_|_\ |___/|_|_\___|_|   |_|  `,
}

var gameOverArt = []string{
	`   ___   _   __  __ ___    _____   _____ ___  `,
	`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
	` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
	`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
}

var controlLines = []string{
	"W / Up / SPACE . . . . Fly",
	"S / Down . . . . . . . Drop",
	"A D / < > . . . . . .  Move",
	"P  . . . . . . . . .  Pause",
	"M  . . . . . . . . . . Mute",
	"Q  . . . . . . . . . . Quit",
}

// BoardLine is one row of the scoreboard shown on menu screens.
type BoardLine struct {
	Player string
	Score  int
	Phase  string
}

// TitleInfo is what the title screen shows.
type TitleInfo struct {
	HighScore int
	Online    int // other players connected; 0 hides the line
	Board     []BoardLine
}

// Title draws the title screen.
func (r *Renderer) Title(info TitleInfo, nowMs int64) error {
	if !r.begin() {
		return r.cw.Flush()
	}
	top := max(r.height/2-9, 1)
	for i, line := range titleArt {
		r.writeColored(top+i, draw.ColorBrightCyan, line)
	}
	row := top + len(titleArt) + 1
	r.writeCentered(row, "~ fly up, fall hard ~")
	row += 2
	r.writeCentered(row, fmt.Sprintf("HIGH SCORE %d", info.HighScore))
	row += 2
	for i, line := range controlLines {
		r.writeCentered(row+i, line)
	}
	row += len(controlLines) + 1

	prompt := ">>  Press SPACE to Start  <<"
	if !blink(nowMs) {
		prompt = strings.Repeat(" ", len(prompt))
	}
	r.writeCentered(row, prompt)
	row += 2

	if info.Online > 0 {
		r.writeCentered(row, fmt.Sprintf("%d other pilots online", info.Online))
		row++
	}
	r.drawBoard(row+1, info.Board)
	return r.cw.Flush()
}

// GameOverInfo is what the game-over screen shows.
type GameOverInfo struct {
	HUD       gamestate.HUD
	HighScore int
	Board     []BoardLine
}

// GameOver draws the end-of-run summary.
func (r *Renderer) GameOver(info GameOverInfo, nowMs int64) error {
	if !r.begin() {
		return r.cw.Flush()
	}
	h := &info.HUD
	top := max(r.height/2-10, 1)
	for i, line := range gameOverArt {
		r.writeColored(top+i, draw.ColorBrightRed, line)
	}
	row := top + len(gameOverArt) + 1

	r.writeColored(row, draw.ColorBold, fmt.Sprintf("SCORE %d", h.Score))
	row++
	if h.NewHighScore {
		if blink(nowMs) {
			r.writeColored(row, draw.ColorBrightYellow, "NEW HIGH SCORE!")
		} else {
			r.writeCentered(row, "               ")
		}
	} else {
		r.writeCentered(row, fmt.Sprintf("HIGH SCORE %d", info.HighScore))
	}
	row += 2

	stats := []string{
		fmt.Sprintf("%-14s %10s", "Survived", clock(h.Elapsed)),
		fmt.Sprintf("%-14s %10s", "Zone reached", h.Phase),
		fmt.Sprintf("%-14s %10d", "Kills", h.Kills),
		fmt.Sprintf("%-14s %10d", "Best combo", h.BestCombo),
		fmt.Sprintf("%-14s %10d", "XP collected", h.XPCollected),
		fmt.Sprintf("%-14s %10d", "Slams", h.SlamCount),
		fmt.Sprintf("%-14s %10.0f", "Max altitude", h.MaxAltitude),
	}
	for i, s := range stats {
		r.writeCentered(row+i, s)
	}
	row += len(stats) + 1

	prompt := ">>  Press SPACE to Restart  <<"
	if !blink(nowMs) {
		prompt = strings.Repeat(" ", len(prompt))
	}
	r.writeCentered(row, prompt)
	r.drawBoard(row+2, info.Board)
	return r.cw.Flush()
}

func (r *Renderer) drawBoard(row int, board []BoardLine) {
	if len(board) == 0 || row >= r.height {
		return
	}
	r.writeColored(row, draw.ColorBold, "TOP RUNS")
	for i, b := range board {
		if row+1+i > r.height {
			return
		}
		r.writeCentered(row+1+i, fmt.Sprintf("%2d. %-16.16s %9d  %-9s", i+1, b.Player, b.Score, b.Phase))
	}
}

// Notice draws a centered message box over whatever is on screen.
func (r *Renderer) Notice(title string, lines ...string) error {
	if !r.begin() {
		return r.cw.Flush()
	}
	width := textWidth(title)
	for _, l := range lines {
		width = max(width, textWidth(l))
	}
	width += 4
	bar := strings.Repeat("─", width)
	pad := func(s string) string {
		return "│ " + s + strings.Repeat(" ", width-2-textWidth(s)) + " │"
	}

	row := max(r.height/2-len(lines)/2-2, 1)
	r.writeCentered(row, "┌"+bar+"┐")
	r.writeColored(row+1, draw.ColorBold, pad(title))
	r.writeCentered(row+2, pad(""))
	for i, l := range lines {
		r.writeCentered(row+3+i, pad(l))
	}
	r.writeCentered(row+3+len(lines), "└"+bar+"┘")
	return r.cw.Flush()
}
