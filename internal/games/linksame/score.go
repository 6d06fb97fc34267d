package linksame

import (
	"math"

	"github.com/vovakirdan/linksame/internal/config"
)

// Bonus returns the speed bonus for a move made secs seconds after the
// previous one. The bonus falls from rules.BonusMax at zero along a square
// root curve and reaches zero at rules.BonusWindow.
func Bonus(secs float64, rules config.ScoringConfig) int {
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
		return 0
	}
	if rules.BonusWindow <= 0 || secs >= rules.BonusWindow {
		return 0
	}
	frac := math.Sqrt(secs) / math.Sqrt(rules.BonusWindow)
	return int(rules.BonusMax * (1 - frac))
}

// ScoreKeeper keeps the timed-mode score. It knows nothing about boards;
// the game reports moves, hints, shuffles and elapsed ticks.
type ScoreKeeper struct {
	rules    config.ScoringConfig
	tickRate int

	score        int
	atStageStart int

	moved      bool   // a move was made this stage; the idle timer runs
	lastMove   uint64 // tick of the last legal move
	lastCharge uint64 // tick of the last move or idle penalty
	penalized  bool   // the last change was a penalty
}

// NewScoreKeeper creates a keeper starting at score.
func NewScoreKeeper(rules config.ScoringConfig, tickRate, score int) *ScoreKeeper {
	if tickRate <= 0 {
		tickRate = 30
	}
	return &ScoreKeeper{
		rules:        rules,
		tickRate:     tickRate,
		score:        score,
		atStageStart: score,
	}
}

// Score returns the current score.
func (s *ScoreKeeper) Score() int {
	return s.score
}

// AtStageStart returns the score the current stage began with.
func (s *ScoreKeeper) AtStageStart() int {
	return s.atStageStart
}

// Penalized reports whether the most recent score change was a deduction.
func (s *ScoreKeeper) Penalized() bool {
	return s.penalized
}

func (s *ScoreKeeper) seconds(ticks uint64) float64 {
	return float64(ticks) / float64(s.tickRate)
}

// LegalMove awards points for a removed pair at tick and returns them.
// The first move of a stage earns no speed bonus.
func (s *ScoreKeeper) LegalMove(tick uint64) int {
	points := s.rules.MovePoints
	if s.moved {
		points += Bonus(s.seconds(tick-s.lastMove), s.rules)
	}
	s.score += points
	s.moved = true
	s.lastMove = tick
	s.lastCharge = tick
	s.penalized = false
	return points
}

// Hint charges for a hint at tick and restarts the idle timer.
func (s *ScoreKeeper) Hint(tick uint64) {
	s.score -= s.rules.HintCost
	s.lastCharge = tick
	s.penalized = true
}

// Shuffle charges for a requested shuffle at tick and restarts the idle timer.
func (s *ScoreKeeper) Shuffle(tick uint64) {
	s.score -= s.rules.ShuffleCost
	s.lastCharge = tick
	s.penalized = true
}

// Tick applies the idle penalty once per idle interval after the last move
// or penalty. It reports whether a penalty was charged. The timer only
// runs once the player has moved in the current stage.
func (s *ScoreKeeper) Tick(tick uint64) bool {
	if !s.moved || s.rules.IdleInterval <= 0 || tick < s.lastCharge {
		return false
	}
	if s.seconds(tick-s.lastCharge) < s.rules.IdleInterval {
		return false
	}
	s.score -= s.rules.IdlePenalty
	s.lastCharge = tick
	s.penalized = true
	return true
}

// StartStage remembers the current score as the stage's starting point and
// stops the idle timer until the next move.
func (s *ScoreKeeper) StartStage() {
	s.atStageStart = s.score
	s.moved = false
	s.penalized = false
}

// RestartStage returns the score to the stage's starting point.
func (s *ScoreKeeper) RestartStage() {
	s.score = s.atStageStart
	s.moved = false
	s.penalized = false
}

// Restore sets both scores, used when loading a saved game.
func (s *ScoreKeeper) Restore(score, atStageStart int) {
	s.score = score
	s.atStageStart = atStageStart
	s.moved = false
	s.penalized = false
}
