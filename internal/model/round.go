package model

import "github.com/shopspring/decimal"

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// RoundUSD rounds to cents.
func RoundUSD(v float64) float64 {
	return RoundTo(v, 2)
}
