package divyield

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultMomentumLookback is the number of trailing points used by Momentum when none is given.
const DefaultMomentumLookback = 5

// SMA returns the simple moving average of points over window points.
//
// The result starts at the window-th point, and is empty if there are fewer points
// than window.
func SMA(points []YieldPoint, window int) ([]YieldPoint, error) {
	if window <= 0 {
		return nil, errors.New("sma window must be positive")
	}
	if len(points) < window {
		return []YieldPoint{}, nil
	}
	n := decimal.NewFromInt(int64(window))
	result := make([]YieldPoint, 0, len(points)-window+1)
	rolling := decimal.Zero
	for i, p := range points {
		rolling = rolling.Add(p.Value)
		if i >= window {
			rolling = rolling.Sub(points[i-window].Value)
		}
		if i >= window-1 {
			result = append(result, YieldPoint{Date: p.Date, Value: rolling.Div(n)})
		}
	}
	return result, nil
}

// SlopeLast returns the least squares slope, per point, of the last lookback points.
//
// lookback is clamped to [2, len(points)]; fewer than two points have a zero slope.
func SlopeLast(points []YieldPoint, lookback int) decimal.Decimal {
	n := min(max(lookback, 2), len(points))
	if n < 2 {
		return decimal.Zero
	}
	start := len(points) - n
	var sumX, sumY, sumXY, sumXX decimal.Decimal
	for i := range n {
		x := decimal.NewFromInt(int64(i))
		y := points[start+i].Value
		sumX = sumX.Add(x)
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(x.Mul(y))
		sumXX = sumXX.Add(x.Mul(x))
	}
	dn := decimal.NewFromInt(int64(n))
	denominator := dn.Mul(sumXX).Sub(sumX.Mul(sumX))
	if denominator.IsZero() {
		return decimal.Zero
	}
	return dn.Mul(sumXY).Sub(sumX.Mul(sumY)).Div(denominator)
}

// Direction is the trend of a series.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
)

// Momentum returns the direction of the slope of the last lookback points.
func Momentum(points []YieldPoint, lookback int) Direction {
	switch SlopeLast(points, lookback).Sign() {
	case 1:
		return Up
	case -1:
		return Down
	default:
		return Flat
	}
}
