package ingestion

import "github.com/shopspring/decimal"

// WetBushels is net weight over the crop's pounds-per-bushel, rounded to 2
// decimal places. Nil when weight is unknown or the divisor is unusable.
func WetBushels(netWeight, weightPerBushel *float64) *float64 {
	if netWeight == nil || weightPerBushel == nil || *weightPerBushel == 0 {
		return nil
	}
	v := round2(*netWeight / *weightPerBushel)
	return &v
}

// DryBushels converts net field weight into the moisture-corrected bushel
// count used by all downstream reporting.
//
// Shrink applies only when the measured moisture exceeds the crop's base
// moisture: dry = wet * (100 - mc) / (100 - baseMC). At or below base, or
// with moisture unknown, wet bushels pass through unchanged.
func DryBushels(netWeight, moisture, baseMoisture, weightPerBushel *float64) *float64 {
	if netWeight == nil || weightPerBushel == nil || *weightPerBushel == 0 {
		return nil
	}
	wet := *netWeight / *weightPerBushel

	if moisture != nil && baseMoisture != nil && *moisture > *baseMoisture {
		if *baseMoisture == 100 {
			return nil
		}
		dry := round2(wet * (100 - *moisture) / (100 - *baseMoisture))
		return &dry
	}

	v := round2(wet)
	return &v
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
