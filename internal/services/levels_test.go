// file: internal/services/levels_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPRequiredForLevel(t *testing.T) {
	assert.Equal(t, int64(100), XPRequiredForLevel(1))
	assert.Equal(t, int64(250), XPRequiredForLevel(2))
	assert.Equal(t, int64(400), XPRequiredForLevel(3))

	// The gap widens by a constant 150 per level.
	for n := 2; n <= 50; n++ {
		gap := XPRequiredForLevel(n) - XPRequiredForLevel(n-1)
		assert.Equal(t, int64(150), gap, "gap at level %d", n)
	}

	// Inputs below 1 are clamped.
	assert.Equal(t, XPRequiredForLevel(1), XPRequiredForLevel(0))
	assert.Equal(t, XPRequiredForLevel(1), XPRequiredForLevel(-5))
}

func TestLevelFromXP(t *testing.T) {
	tests := []struct {
		xp    int64
		level int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},  // level 1 fully paid for
		{349, 2},
		{350, 3},  // 100 + 250
		{749, 3},
		{750, 4},  // 100 + 250 + 400
		{-10, 1},  // negative clamps to zero
	}

	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelFromXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelFromXPMonotonic(t *testing.T) {
	prev := LevelFromXP(0)
	for xp := int64(1); xp <= 5000; xp++ {
		level := LevelFromXP(xp)
		assert.GreaterOrEqual(t, level, prev, "level regressed at xp=%d", xp)
		prev = level
	}
}

func TestProgress(t *testing.T) {
	p := Progress(0)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Equal(t, 2, p.NextLevel)
	assert.Equal(t, int64(0), p.XPIntoCurrentLevel)
	assert.Equal(t, int64(100), p.XPNeededForCurrentLevel)
	assert.Equal(t, 0, p.Percent)

	// Halfway through level 2: 100 paid for level 1, 125 of 250 into level 2.
	p = Progress(225)
	assert.Equal(t, 2, p.CurrentLevel)
	assert.Equal(t, int64(125), p.XPIntoCurrentLevel)
	assert.Equal(t, int64(250), p.XPNeededForCurrentLevel)
	assert.Equal(t, 50, p.Percent)

	// One XP short of the boundary floors to 99, never 100.
	p = Progress(99)
	assert.Equal(t, 1, p.CurrentLevel)
	assert.Equal(t, 99, p.Percent)

	// Crossing the boundary resets to 0 at the new level.
	p = Progress(100)
	assert.Equal(t, 2, p.CurrentLevel)
	assert.Equal(t, 0, p.Percent)
}

func TestProgressPercentBounds(t *testing.T) {
	for xp := int64(0); xp <= 5000; xp += 7 {
		p := Progress(xp)
		assert.GreaterOrEqual(t, p.Percent, 0, "xp=%d", xp)
		assert.LessOrEqual(t, p.Percent, 99, "xp=%d", xp)
		assert.Equal(t, p.CurrentLevel+1, p.NextLevel, "xp=%d", xp)
		assert.Equal(t, LevelFromXP(xp), p.CurrentLevel, "xp=%d", xp)
	}
}
