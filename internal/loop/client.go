// Package loop runs one terminal session: title screen, a run of the
// simulation, and the game-over summary, with input, rendering and audio
// wired around the simulation step.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/vectordrift/internal/arcade"
	"github.com/tomz197/vectordrift/internal/audio"
	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/draw"
	"github.com/tomz197/vectordrift/internal/highscore"
	"github.com/tomz197/vectordrift/internal/input"
	"github.com/tomz197/vectordrift/internal/player"
	"github.com/tomz197/vectordrift/internal/render"
	"github.com/tomz197/vectordrift/internal/sim"
)

// Client handles simulation, rendering and input for a single terminal.
type Client struct {
	hub          *arcade.Hub
	session      *arcade.Session
	sim          *sim.Simulation
	render       *render.Renderer
	effects      *render.Effects
	audio        audio.Player
	logger       *log.Logger
	state        *clientState
	inputStream  *input.Stream
	controls     input.Controls
	pauseKey     input.Edge
	muteKey      input.Edge
	startKey     input.Edge
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Config       *config.Config // nil uses config.Default()
	Audio        audio.Player   // nil is silent
	Logger       *log.Logger
	Seed         int64 // 0 seeds from the clock
}

// NewClient creates a session registered with hub, reading keys from r and
// drawing to w.
func NewClient(hub *arcade.Hub, r *bufio.Reader, w io.Writer, opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s, err := sim.New(*cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	name := sanitizeUsername(opts.Username)
	var sound audio.Player = audio.Nop{}
	if opts.Audio != nil {
		sound = opts.Audio
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		hub:          hub,
		session:      hub.Register(name),
		sim:          s,
		render:       render.New(w, s.Config()),
		effects:      render.NewEffects(rand.New(rand.NewSource(seed + 1))),
		audio:        sound,
		logger:       logger.With("player", name),
		state:        newClientState(),
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		username:     name,
		termSizeFunc: termSizeFunc,
	}
	c.refreshBoard()
	return c, nil
}

// sanitizeUsername keeps printable ASCII and caps the length.
func sanitizeUsername(name string) string {
	out := make([]byte, 0, MaxUsernameLength)
	for i := 0; i < len(name) && len(out) < MaxUsernameLength; i++ {
		if b := name[i]; b > ' ' && b < 0x7f {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return DefaultUsername
	}
	return string(out)
}

// Run starts the client loop. Blocks until the player quits, the input
// closes, the session idles out, or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	defer c.close()
	if err := c.render.Hide(); err != nil {
		return err
	}

	lastTime := time.Now()
	for c.state.Running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := c.frame(ctx, frameStart, input.ReadInput(c.inputStream)); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			time.Sleep(TargetFrameTime - elapsed)
		}
	}
	return nil
}

func (c *Client) close() {
	c.hub.Unregister(c.session.ID)
	if err := c.render.Close(); err != nil {
		c.logger.Debug("restore terminal", "err", err)
	}
}

// frame runs one Input → Update → Draw cycle.
func (c *Client) frame(ctx context.Context, now time.Time, in input.Input) error {
	c.state.frame++
	c.applyInput(in, now)
	c.processHubEvents()
	c.updateScreen()

	switch c.state.Screen {
	case ScreenTitle:
		c.updateTitle()
	case ScreenPlaying:
		c.updatePlaying(ctx, now)
	case ScreenGameOver:
		c.updateGameOver(now)
	case ScreenShutdown:
		c.updateShutdown()
	}
	return c.drawFrame(now)
}

// applyInput records the frame's keys and tracks inactivity.
func (c *Client) applyInput(in input.Input, now time.Time) {
	c.state.Input = in
	if in.Closed {
		c.state.Running = false
	}

	idle := now.Sub(c.lastInput)
	switch {
	case len(in.Pressed) > 0:
		c.lastInput = now
		c.state.isInactive = false
	case idle > InactivityDisconnectUser:
		c.logger.Info("disconnecting idle session")
		c.state.Running = false
	case idle > InactivityWarnUser:
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
	}
}

// processHubEvents drains events sent by the hub.
func (c *Client) processHubEvents() {
	for {
		select {
		case ev, ok := <-c.session.Events:
			if !ok {
				c.state.Running = false
				return
			}
			switch ev.Type {
			case arcade.EventServerShutdown:
				if c.state.Screen != ScreenShutdown {
					c.sim.Pause()
					c.state.Screen = ScreenShutdown
					c.state.shutdownTimer = ShutdownDisplaySeconds
				}
			case arcade.EventHighScore:
				c.logger.Debug("high score elsewhere", "by", ev.Player, "score", ev.Score)
				c.state.highScore = max(c.state.highScore, ev.Score)
				if c.state.Screen != ScreenPlaying {
					c.refreshBoard()
				}
			}
		default:
			return
		}
	}
}

// updateScreen follows terminal resizes.
func (c *Client) updateScreen() {
	width, height, err := c.termSizeFunc()
	if err != nil {
		return
	}
	c.render.Resize(width, height)
}

func (c *Client) updateTitle() {
	in := c.state.Input
	if c.startKey.Rise(in.Space || in.Enter) {
		c.startGame()
	}
}

// startGame starts a fresh run.
func (c *Client) startGame() {
	c.sim.Reset()
	c.effects.Reset()
	c.controls = input.Controls{}
	c.state.accumulator = 0
	c.state.alpha = 1
	c.state.Screen = ScreenPlaying
	c.audio.Resume()
	c.logger.Debug("run started")
}

// updatePlaying feeds elapsed wall time to the simulation in fixed steps.
func (c *Client) updatePlaying(ctx context.Context, now time.Time) {
	in := c.state.Input
	if c.pauseKey.Rise(in.Pause || in.Escape) {
		if c.sim.Paused() {
			c.sim.Resume()
			c.audio.Resume()
		} else {
			c.sim.Pause()
			c.audio.Pause()
		}
	}
	if c.muteKey.Rise(in.Mute) {
		muted := c.audio.ToggleMute()
		c.logger.Debug("sound toggled", "muted", muted)
	}
	if c.sim.Paused() {
		c.state.alpha = 1
		return
	}

	frameSeconds := min(c.state.delta.Seconds(), maxFrameSeconds)
	c.effects.Update(frameSeconds)
	c.state.accumulator += frameSeconds
	if c.state.accumulator < stepSeconds {
		c.state.alpha = c.state.accumulator / stepSeconds
		return
	}

	// edges go to the first step only
	pin := c.controls.Next(in)
	for c.state.accumulator >= stepSeconds {
		c.state.accumulator -= stepSeconds
		tick := c.sim.Step(stepSeconds, pin)
		pin.JustPressed, pin.JustReleased = false, false
		c.handleTick(&tick)
		if tick.GameOver {
			c.finishRun(ctx, now)
			return
		}
	}
	c.state.alpha = c.state.accumulator / stepSeconds

	if c.state.frame%publishEvery == 0 {
		c.publish(true)
	}
}

// handleTick forwards one step's triggers to audio and the controls.
func (c *Client) handleTick(t *sim.Tick) {
	for _, s := range t.Sounds {
		c.audio.Play(s)
	}
	c.effects.Apply(t)
	for _, ev := range t.Player {
		// an empty meter ends flight; the key has to be pressed again
		if ev.Kind == player.EventModeChanged && ev.To == player.ModeFalling && c.controls.Holding() {
			c.controls.Release()
		}
	}
	if t.ZoneChanged {
		c.logger.Debug("zone reached", "zone", t.Difficulty.Phase)
	}
}

// finishRun records the run and shows the summary.
func (c *Client) finishRun(ctx context.Context, now time.Time) {
	hud := c.sim.State().Snapshot()
	run := highscore.NewRun(c.username, hud, now)
	newHigh, err := c.hub.Finish(ctx, c.session.ID, run)
	if err != nil {
		c.logger.Error("finish run", "err", err)
	}
	if newHigh {
		c.sim.MarkNewHighScore()
	}
	c.refreshBoard()
	c.publish(false)

	c.state.Screen = ScreenGameOver
	c.state.gameOverAt = now
}

func (c *Client) updateGameOver(now time.Time) {
	in := c.state.Input
	pressed := c.startKey.Rise(in.Space || in.Enter)
	if pressed && now.Sub(c.state.gameOverAt) >= GameOverInputDelay {
		c.startGame()
	}
}

// updateShutdown counts down to the automatic disconnect.
func (c *Client) updateShutdown() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// publish sends the live status to the hub.
func (c *Client) publish(playing bool) {
	st := c.sim.State()
	c.hub.Publish(arcade.Status{
		ID:      c.session.ID,
		Player:  c.username,
		Playing: playing,
		Score:   st.Score(),
		Phase:   st.Snapshot().Phase,
		Elapsed: st.Elapsed(),
	})
}

// refreshBoard copies the hub's board for the menu screens.
func (c *Client) refreshBoard() {
	b := c.hub.Board()
	c.state.highScore = max(c.state.highScore, b.HighScore)
	c.state.board = c.state.board[:0]
	for i, e := range b.Top {
		if i == boardLines {
			break
		}
		c.state.board = append(c.state.board, render.BoardLine{Player: e.Player, Score: e.Score, Phase: e.Phase})
	}
}

// drawFrame draws the current screen.
func (c *Client) drawFrame(now time.Time) error {
	// On screen or inactivity transitions, do a full terminal clear so
	// text from the previous screen doesn't persist.
	if c.state.Screen != c.state.prevScreen || c.state.isInactive != c.state.wasInactive {
		c.render.Invalidate()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}
	nowMs := now.UnixMilli()

	if c.state.Screen == ScreenShutdown {
		remaining := int(c.state.shutdownTimer) + 1
		return c.render.Notice("SERVER SHUTTING DOWN",
			"The server is restarting for maintenance.",
			"Please reconnect in a moment.",
			"",
			fmt.Sprintf("Disconnecting in %d seconds...", remaining),
			"Press Q to disconnect now")
	}
	if c.state.isInactive {
		left := int((InactivityDisconnectUser - now.Sub(c.lastInput)).Seconds())
		return c.render.Notice("INACTIVITY WARNING",
			fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0)),
			"Press any key to continue")
	}

	switch c.state.Screen {
	case ScreenTitle:
		return c.render.Title(render.TitleInfo{
			HighScore: c.state.highScore,
			Online:    c.hub.Online() - 1,
			Board:     c.state.board,
		}, nowMs)
	case ScreenPlaying:
		snap := c.sim.Snapshot()
		return c.render.Playing(&snap, c.effects, c.state.alpha, nowMs)
	case ScreenGameOver:
		return c.render.GameOver(render.GameOverInfo{
			HUD:       c.sim.State().Snapshot(),
			HighScore: c.state.highScore,
			Board:     c.state.board,
		}, nowMs)
	}
	return nil
}
