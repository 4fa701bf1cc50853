package service

// Average returns the mean of ratings rounded half away from zero to one
// decimal place, or nil when there are no ratings. Ratings are positive, so
// the rounding is done in integer tenths to stay exact.
func Average(ratings []int) *float64 {
	if len(ratings) == 0 {
		return nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	n := len(ratings)
	tenths := (20*sum + n) / (2 * n)
	avg := float64(tenths) / 10
	return &avg
}
