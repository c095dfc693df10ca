package options

import "math"

const sqrt2Pi = 2.5066282746310002

// normCDF computes the standard normal cumulative distribution function
// using the error function
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// normPDF computes the standard normal probability density function
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}
