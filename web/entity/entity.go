// Package entity defines the request forms and response envelopes of the HTTP API.
package entity

import (
	"math"
	"strconv"
	"strings"

	"github.com/quillpress/quillpress/util/common"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit inside an int32 offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Msg is the envelope of every non-list response. Message is always present.
type Msg struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Page is the requested window of a list.
type Page struct {
	Page  int
	Limit int
}

// ParsePage reads the page and limit query values. Missing, malformed or
// non-positive values fall back to the defaults; limit is capped at MaxLimit
// and page at MaxPage.
func ParsePage(page, limit string) Page {
	p := Page{Page: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		p.Page = min(n, MaxPage)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is reported alongside every list.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func (p Page) Result(total int64) Pagination {
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

// ParseID reads a path id; anything but a positive integer is a validation error.
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, common.NewValidationError("invalid id", map[string][]string{"id": {"must be a positive integer"}})
	}
	return uint(n), nil
}
