package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100

	// MaxPage keeps Offset within a signed 32-bit range.
	MaxPage = math.MaxInt32 / MaxPerPage
)

// Params is a normalized page request.
type Params struct {
	Page    int
	PerPage int
}

// FromQuery reads page and per_page, clamping per_page to [1, MaxPerPage].
// Non-numeric values fall back to the defaults.
func FromQuery(c *gin.Context) Params {
	return New(atoiOr(c.Query("page"), 1), atoiOr(c.Query("per_page"), DefaultPerPage))
}

func New(page, perPage int) Params {
	page = min(max(page, 1), MaxPage)
	perPage = min(max(perPage, 1), MaxPerPage)
	return Params{Page: page, PerPage: perPage}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func (p Params) Limit() int {
	return p.PerPage
}

// Meta is the pagination block of list responses.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	From        *int  `json:"from"`
	To          *int  `json:"to"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewMeta describes a page holding count items out of total.
func NewMeta(p Params, total int64, count int) Meta {
	lastPage := 1
	if total > 0 {
		lastPage = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}

	meta := Meta{
		CurrentPage: p.Page,
		TotalPages:  lastPage,
		PerPage:     p.PerPage,
		TotalItems:  total,
		HasNext:     p.Page < lastPage,
		HasPrev:     p.Page > 1,
	}
	if count > 0 {
		from := p.Offset() + 1
		to := p.Offset() + count
		meta.From = &from
		meta.To = &to
	}
	return meta
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
