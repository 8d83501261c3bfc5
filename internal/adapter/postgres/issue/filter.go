package issue

import (
	"github.com/mmogoimpact/civicportal-backend/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	sortByCreatedAt = "created_at"
	sortByUpdatedAt = "updated_at"
	sortByVoteCount = "vote_count"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalizeFilter applies defaults and clamps values. SortBy and SortOrder
// are interpolated into SQL, so anything unknown falls back to the default.
func normalizeFilter(f domain.IssueFilter) domain.IssueFilter {
	switch f.SortBy {
	case sortByCreatedAt, sortByUpdatedAt, sortByVoteCount:
		// valid
	default:
		f.SortBy = sortByCreatedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderDESC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}

	return f
}
