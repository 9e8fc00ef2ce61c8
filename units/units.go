// Package units converts between linear levels and decibels, and between
// radians and degrees.
package units

import "math"

func dbFactor(square bool) float64 {
	if square {
		return 20
	}
	return 10
}

// ToDB returns 20*log10(level/reference) when square is set (amplitude
// quantities) and 10*log10(level/reference) otherwise (power quantities).
func ToDB(level, reference float64, square bool) float64 {
	return dbFactor(square) * math.Log10(level/reference)
}

// ToLevel is the inverse of ToDB for the same reference and square flag.
func ToLevel(db, reference float64, square bool) float64 {
	return reference * math.Pow(10, db/dbFactor(square))
}

// ToDeg converts radians to degrees.
func ToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// ToRad converts degrees to radians.
func ToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// SliceToDB applies ToDB to every level.
func SliceToDB(levels []float64, reference float64, square bool) []float64 {
	return mapSlice(levels, func(v float64) float64 { return ToDB(v, reference, square) })
}

// SliceToLevel applies ToLevel to every value.
func SliceToLevel(dbs []float64, reference float64, square bool) []float64 {
	return mapSlice(dbs, func(v float64) float64 { return ToLevel(v, reference, square) })
}

// SliceToDeg applies ToDeg to every value.
func SliceToDeg(radians []float64) []float64 {
	return mapSlice(radians, ToDeg)
}

// SliceToRad applies ToRad to every value.
func SliceToRad(degrees []float64) []float64 {
	return mapSlice(degrees, ToRad)
}

func mapSlice(in []float64, f func(float64) float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
