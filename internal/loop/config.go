package loop

import "time"

// Frame pacing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS

	// stepSeconds is the fixed simulation step; rendering interpolates
	// between steps.
	stepSeconds = 1.0 / 60
	// maxFrameSeconds caps the time fed to the simulation after a stall.
	maxFrameSeconds = 0.25
)

// Sessions
const (
	MaxUsernameLength = 16
	DefaultUsername   = "pilot"

	// publishEvery is how many frames pass between live status updates.
	publishEvery = 15
	// boardLines is how many finished runs the menu screens list.
	boardLines = 5
)

// Screens
const (
	// GameOverInputDelay keeps a key held at death from restarting at once.
	GameOverInputDelay = 1500 * time.Millisecond
	// ShutdownDisplaySeconds is how long the shutdown notice shows before
	// the session closes on its own.
	ShutdownDisplaySeconds = 10.0
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
