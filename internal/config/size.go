package config

import (
	"fmt"
	"sort"
	"strings"
)

// SizePreset names a board size.
type SizePreset string

const (
	SizeTiny   SizePreset = "tiny"
	SizeEasy   SizePreset = "easy"
	SizeNormal SizePreset = "normal"
	SizeHard   SizePreset = "hard"
)

// SizePresets lists the standard sizes from smallest to largest.
var SizePresets = []SizePreset{SizeTiny, SizeEasy, SizeNormal, SizeHard}

// ParseSizePreset accepts a preset name in any case.
func ParseSizePreset(s string) (SizePreset, error) {
	p := SizePreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SizePresets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown size %q (want tiny, easy, normal or hard)", s)
}

// StyleNames returns the configured style names in sorted order.
func (c LinkSameConfig) StyleNames() []string {
	names := make([]string, 0, len(c.Styles))
	for name := range c.Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SizeNames returns the configured size names, standard presets first.
func (c LinkSameConfig) SizeNames() []string {
	names := make([]string, 0, len(c.Sizes))
	seen := make(map[string]bool)
	for _, p := range SizePresets {
		if _, ok := c.Sizes[string(p)]; ok {
			names = append(names, string(p))
			seen[string(p)] = true
		}
	}
	var extra []string
	for name := range c.Sizes {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
