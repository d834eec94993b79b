package regions

import (
	"fmt"
	"math"
)

// goldenAngle spreads hues so neighboring indexes get visually distinct colors.
const goldenAngle = 137.508

// ColorForIndex maps a canonical region index to an HSL color. The mapping is
// a pure function of the index, so a region keeps its color regardless of
// which subset of regions a client has selected.
func ColorForIndex(i int) string {
	if i < 0 {
		i = 0
	}
	hue := math.Mod(float64(i)*goldenAngle, 360)
	return fmt.Sprintf("hsl(%.1f, 70%%, 60%%)", hue)
}
