package service

import "math"

// roundTo2Decimals rounds to cents.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

func roundTo4Decimals(value float64) float64 {
	return math.Round(value*10000) / 10000
}
