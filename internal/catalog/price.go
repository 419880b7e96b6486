package catalog

// DefaultPriceCap is the registration system's maximum clearing price.
const DefaultPriceCap = 4851

// RealizePrice computes one clipped price realization from the point
// forecast, the residual distribution and a standard-normal draw.
func RealizePrice(course CourseRecord, z float64, cap float64) float64 {
	price := float64(course.TruncatedPricePrediction) +
		float64(course.PricePredictionResidualMean) +
		z*float64(course.PricePredictionResidualStdDev)

	if price < 0 {
		return 0
	}
	if price > cap {
		return cap
	}
	return price
}

// MaterializeDraws fills in price draws for every course that carries
// none, realizing one price per z-score. Courses that already carry
// draws keep them untouched.
func MaterializeDraws(courses []CourseRecord, zScores []float64, cap float64) {
	for i, course := range courses {
		if len(course.TruncatedPriceFluctuations) > 0 {
			continue
		}
		draws := make([]float64, len(zScores))
		for seed, z := range zScores {
			draws[seed] = RealizePrice(course, z, cap)
		}
		courses[i].TruncatedPriceFluctuations = draws
	}
}
