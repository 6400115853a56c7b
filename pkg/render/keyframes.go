package render

import (
	"slices"
	"strconv"
	"strings"
)

// SortSteps orders keyframe selectors: "from" first, percentages ascending,
// "to" last, anything else alphabetically after.
func SortSteps(steps []string) []string {
	out := slices.Clone(steps)
	slices.SortStableFunc(out, func(a, b string) int {
		pa, pb := stepPos(a), stepPos(b)
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		}
		return strings.Compare(a, b)
	})
	return out
}

func stepPos(step string) float64 {
	switch step {
	case "from":
		return 0
	case "to":
		return 100
	}
	if pct, ok := strings.CutSuffix(step, "%"); ok {
		if f, err := strconv.ParseFloat(pct, 64); err == nil {
			return f
		}
	}
	return 1000
}
