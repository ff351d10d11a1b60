package wordlist

import (
	"github.com/linkword/linkword-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f *domain.ListFilter) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
