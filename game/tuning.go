package game

import "fmt"

const (
	DefaultGridWidth   = 20
	DefaultGridHeight  = 15
	DefaultWinScore    = 10
	DefaultPickupCount = 3
	spawnCorners       = 4
	placementProbes    = 32 // random tries before scanning for a free cell
)

// Palette is indexed by join order.
var Palette = []string{
	"#FF00FF",
	"#00FFFF",
	"#FFFF00",
	"#FF8000",
	"#00FF00",
	"#FF0000",
	"#0000FF",
	"#8000FF",
}

// Config holds the rules of a round.
type Config struct {
	GridWidth   int
	GridHeight  int
	WinScore    int
	PickupCount int
}

func DefaultConfig() Config {
	return Config{
		GridWidth:   DefaultGridWidth,
		GridHeight:  DefaultGridHeight,
		WinScore:    DefaultWinScore,
		PickupCount: DefaultPickupCount,
	}
}

// Validate rejects grids too small to hold the four spawn corners plus every pickup.
func (c Config) Validate() error {
	if c.GridWidth < 2 || c.GridHeight < 2 {
		return fmt.Errorf("grid %dx%d too small, need at least 2x2", c.GridWidth, c.GridHeight)
	}
	if c.WinScore < 1 {
		return fmt.Errorf("win score must be positive, got %d", c.WinScore)
	}
	if c.PickupCount < 1 {
		return fmt.Errorf("pickup count must be positive, got %d", c.PickupCount)
	}
	if free := c.GridWidth*c.GridHeight - spawnCorners; c.PickupCount > free {
		return fmt.Errorf("pickup count %d exceeds %d free cells", c.PickupCount, free)
	}
	return nil
}
