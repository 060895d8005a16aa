package game

import "fmt"

// StartingPosition maps join order onto the grid corners:
// top-left, top-right, bottom-left, bottom-right, then repeats.
func StartingPosition(joinIndex, width, height int) Position {
	switch joinIndex % spawnCorners {
	case 1:
		return Position{X: width - 1, Y: 0}
	case 2:
		return Position{X: 0, Y: height - 1}
	case 3:
		return Position{X: width - 1, Y: height - 1}
	default:
		return Position{X: 0, Y: 0}
	}
}

func ColorFor(joinIndex int) string {
	return Palette[joinIndex%len(Palette)]
}

func DisplayName(joinIndex int) string {
	return fmt.Sprintf("Player %d", joinIndex+1)
}
