package domain

import (
	"fmt"
	"math"
)

const metersPerMile = 1609.344

// Display form of a run distance.
type FormattedDistance struct {
	Rounded string
	Units   string
}

// FormatDistance renders meters as kilometers or miles with two decimals.
func FormatDistance(meters float64, metric bool) FormattedDistance {
	if metric {
		return FormattedDistance{Rounded: round2(meters / 1000), Units: "km"}
	}
	return FormattedDistance{Rounded: round2(meters / metersPerMile), Units: "mi"}
}

func round2(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*100)/100)
}
