// file: internal/services/levels.go
package services

import (
	"inkwell/internal/models"
)

// ===============================
// XP / LEVEL MODEL
// ===============================

// XPRequiredForLevel returns the XP needed to complete level n.
// Level 1 takes 100 XP, level 2 takes 250, with the gap widening by 150 per
// level after that. Valid for n >= 1; lower inputs are clamped.
func XPRequiredForLevel(n int) int64 {
	if n < 1 {
		n = 1
	}
	return int64(n)*100 + int64(n-1)*50
}

// LevelFromXP returns the largest level whose preceding levels are fully
// paid for by xp. A user with 0 XP is level 1: accumulation of per-level
// requirements stops at the first level the running total would exceed xp.
func LevelFromXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	level := 1
	var cumulative int64
	for {
		needed := XPRequiredForLevel(level)
		if cumulative+needed > xp {
			return level
		}
		cumulative += needed
		level++
	}
}

// Progress reports the user's position inside the current level. Percent is
// floored and always in [0, 99]: crossing a boundary yields percent 0 at the
// new level, never 100 at the old one.
func Progress(xp int64) models.LevelProgress {
	if xp < 0 {
		xp = 0
	}

	level := 1
	var cumulative int64
	for {
		needed := XPRequiredForLevel(level)
		if cumulative+needed > xp {
			into := xp - cumulative
			return models.LevelProgress{
				CurrentLevel:            level,
				NextLevel:               level + 1,
				XPIntoCurrentLevel:      into,
				XPNeededForCurrentLevel: needed,
				Percent:                 int(into * 100 / needed),
			}
		}
		cumulative += needed
		level++
	}
}
