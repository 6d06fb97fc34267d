// Package config provides YAML-based configuration for LinkSame: board size
// presets, tile styles, scoring constants and stage settings.
package config

import "fmt"

// LinkSameConfig contains all configuration for the game.
type LinkSameConfig struct {
	Sizes   map[string]SizeConfig  `yaml:"sizes"`
	Styles  map[string]StyleConfig `yaml:"styles"`
	Scoring ScoringConfig          `yaml:"scoring"`
	Stages  StagesConfig           `yaml:"stages"`
	Dealer  DealerConfig           `yaml:"dealer"`
	Display DisplayConfig          `yaml:"display"`
}

// SizeConfig is a board size in tiles.
type SizeConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Cells returns the number of tiles on a full board.
func (s SizeConfig) Cells() int {
	return s.Width * s.Height
}

// String returns the size as "WxH".
func (s SizeConfig) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// StyleConfig is a tile set. Basic tiles are always dealt; additional tiles
// fill up larger boards in order.
type StyleConfig struct {
	Title      string   `yaml:"title"`
	Basic      []string `yaml:"basic"`
	Additional []string `yaml:"additional"`
}

// Kinds returns the number of distinct tiles in the style.
func (s StyleConfig) Kinds() int {
	return len(s.Basic) + len(s.Additional)
}

// ScoringConfig holds the timed-mode scoring rules.
type ScoringConfig struct {
	MovePoints   int     `yaml:"move_points"`   // points for every removed pair
	BonusMax     float64 `yaml:"bonus_max"`     // bonus for an instant move
	BonusWindow  float64 `yaml:"bonus_window"`  // seconds after which no bonus is paid
	HintCost     int     `yaml:"hint_cost"`     // points taken for a hint
	ShuffleCost  int     `yaml:"shuffle_cost"`  // points taken for a requested shuffle
	IdlePenalty  int     `yaml:"idle_penalty"`  // points taken per idle interval
	IdleInterval float64 `yaml:"idle_interval"` // seconds without a move before a penalty
}

// StagesConfig controls the stage sequence.
type StagesConfig struct {
	Last int `yaml:"last"` // index of the final stage, 0..8
}

// DealerConfig tunes board generation.
type DealerConfig struct {
	MaxRedeals int `yaml:"max_redeals"`
}

// DisplayConfig tunes how long transient marks stay on screen.
type DisplayConfig struct {
	PathTicks int `yaml:"path_ticks"` // removal path visibility
	HintTicks int `yaml:"hint_ticks"` // hint highlight visibility
}

// Size returns the named board size.
func (c LinkSameConfig) Size(name string) (SizeConfig, error) {
	s, ok := c.Sizes[name]
	if !ok {
		return SizeConfig{}, fmt.Errorf("config: unknown size %q", name)
	}
	return s, nil
}

// Style returns the named tile style.
func (c LinkSameConfig) Style(name string) (StyleConfig, error) {
	s, ok := c.Styles[name]
	if !ok {
		return StyleConfig{}, fmt.Errorf("config: unknown style %q", name)
	}
	return s, nil
}

// Validate checks that every size can be dealt with every style.
func (c LinkSameConfig) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("config: no board sizes")
	}
	if len(c.Styles) == 0 {
		return fmt.Errorf("config: no tile styles")
	}
	for name, s := range c.Sizes {
		if s.Width <= 0 || s.Height <= 0 || s.Cells()%4 != 0 {
			return fmt.Errorf("config: size %q (%s) must be positive with a multiple of 4 cells", name, s)
		}
		for styleName, st := range c.Styles {
			if st.Kinds() < s.Cells()/4 {
				return fmt.Errorf("config: style %q has %d tiles, size %q needs %d",
					styleName, st.Kinds(), name, s.Cells()/4)
			}
		}
	}
	if c.Stages.Last < 0 || c.Stages.Last > 8 {
		return fmt.Errorf("config: last stage %d out of range 0..8", c.Stages.Last)
	}
	return nil
}

// fillDefaults copies defaults into zero-valued fields.
func (c *LinkSameConfig) fillDefaults(d LinkSameConfig) {
	if len(c.Sizes) == 0 {
		c.Sizes = d.Sizes
	}
	if len(c.Styles) == 0 {
		c.Styles = d.Styles
	}
	if c.Scoring == (ScoringConfig{}) {
		c.Scoring = d.Scoring
	}
	if c.Dealer.MaxRedeals <= 0 {
		c.Dealer.MaxRedeals = d.Dealer.MaxRedeals
	}
	if c.Display.PathTicks <= 0 {
		c.Display.PathTicks = d.Display.PathTicks
	}
	if c.Display.HintTicks <= 0 {
		c.Display.HintTicks = d.Display.HintTicks
	}
}
