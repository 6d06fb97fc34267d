package config

import (
	_ "embed"
	"strings"
)

//go:embed defaults/linksame.yaml
var defaultLinkSameYAML []byte

// DefaultLinkSameConfig returns the built-in configuration, used when no
// YAML can be read at all.
func DefaultLinkSameConfig() LinkSameConfig {
	return LinkSameConfig{
		Sizes: map[string]SizeConfig{
			string(SizeTiny):   {Width: 4, Height: 4},
			string(SizeEasy):   {Width: 12, Height: 7},
			string(SizeNormal): {Width: 14, Height: 8},
			string(SizeHard):   {Width: 16, Height: 9},
		},
		Styles: map[string]StyleConfig{
			"letters": {
				Title:      "Letters",
				Basic:      strings.Split("ABCDEFGHI", ""),
				Additional: strings.Split("JKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", ""),
			},
			"symbols": {
				Title:      "Symbols",
				Basic:      strings.Split("♠♣♥♦★●◆■▲", ""),
				Additional: strings.Split("♪♫☀☁☂☃☎☯✈✉✂✎✓✗∞§¶ΩπΣΔλµ¤¥£€¢♀♂☼○◇□△▼▽◎☆♔♕♖♗♘", ""),
			},
		},
		Scoring: ScoringConfig{
			MovePoints:   1,
			BonusMax:     15,
			BonusWindow:  10,
			HintCost:     10,
			ShuffleCost:  20,
			IdlePenalty:  1,
			IdleInterval: 10,
		},
		Stages: StagesConfig{Last: 8},
		Dealer: DealerConfig{MaxRedeals: 10},
		Display: DisplayConfig{
			PathTicks: 12,
			HintTicks: 45,
		},
	}
}
