package core

// RuntimeConfig is handed to a game on every Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 lets the platform pick one from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0,
	}
}

// TickSeconds converts a tick count into seconds at this tick rate.
func (c RuntimeConfig) TickSeconds(ticks int) float64 {
	if c.TickRate <= 0 {
		return 0
	}
	return float64(ticks) / float64(c.TickRate)
}

// GameState is the status a game reports to the platform after each step.
type GameState struct {
	Score    int  // Current score
	GameOver bool // The game has ended, won or lost
	Won      bool // The game ended with every board cleared
	Paused   bool
}

// StepResult is returned by Game.Step after each simulation tick.
type StepResult struct {
	State GameState
}
