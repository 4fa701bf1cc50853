package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingClass(t *testing.T) {
	rating := func(v float64) *float64 { return &v }

	assert.Equal(t, RatingClassNone, RatingClass(nil))
	assert.Equal(t, RatingClassTop, RatingClass(rating(8.5)))
	assert.Equal(t, RatingClassPopular, RatingClass(rating(8.4)))
	assert.Equal(t, RatingClassPopular, RatingClass(rating(7.0)))
	assert.Equal(t, RatingClassRegular, RatingClass(rating(6.9)))
}
