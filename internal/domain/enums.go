package domain

// IssueStatus represents the lifecycle state of a civic issue.
type IssueStatus string

const (
	IssueStatusDraft      IssueStatus = "draft"
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
	IssueStatusClosed     IssueStatus = "closed"
)

func (s IssueStatus) String() string { return string(s) }

func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueStatusDraft, IssueStatusOpen, IssueStatusInProgress,
		IssueStatusResolved, IssueStatusClosed:
		return true
	}
	return false
}

// statusTransitions is the fixed successor table for the issue lifecycle.
// A closed issue reopens into in_progress, never directly back to open.
// Self-transitions are not listed and therefore not permitted.
var statusTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusDraft:      {IssueStatusOpen},
	IssueStatusOpen:       {IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed},
	IssueStatusInProgress: {IssueStatusResolved, IssueStatusClosed, IssueStatusOpen},
	IssueStatusResolved:   {IssueStatusClosed, IssueStatusInProgress},
	IssueStatusClosed:     {IssueStatusInProgress},
}

// CanTransitionTo reports whether next is a permitted successor of s.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition checks the transition s -> next and returns an
// *InvalidTransitionError naming both states when it is not permitted.
func (s IssueStatus) ValidateTransition(next IssueStatus) error {
	if !next.IsValid() {
		return NewValidationError("status", "unknown status "+string(next))
	}
	if !s.CanTransitionTo(next) {
		return &InvalidTransitionError{From: s, To: next}
	}
	return nil
}

// Label returns the human-readable form used in update and notification text
// ("in_progress" -> "in progress").
func (s IssueStatus) Label() string {
	if s == IssueStatusInProgress {
		return "in progress"
	}
	return string(s)
}

// IssueCategory classifies a reported issue.
type IssueCategory string

const (
	IssueCategoryInfrastructure IssueCategory = "infrastructure"
	IssueCategoryEnvironment    IssueCategory = "environment"
	IssueCategorySafety         IssueCategory = "safety"
	IssueCategoryHealth         IssueCategory = "health"
	IssueCategoryEducation      IssueCategory = "education"
	IssueCategoryUtilities      IssueCategory = "utilities"
	IssueCategoryOther          IssueCategory = "other"
)

func (c IssueCategory) String() string { return string(c) }

func (c IssueCategory) IsValid() bool {
	switch c {
	case IssueCategoryInfrastructure, IssueCategoryEnvironment, IssueCategorySafety,
		IssueCategoryHealth, IssueCategoryEducation, IssueCategoryUtilities,
		IssueCategoryOther:
		return true
	}
	return false
}

// UpdateType tags an issue update entry.
type UpdateType string

const (
	UpdateTypeStatus  UpdateType = "status"
	UpdateTypeComment UpdateType = "comment"
)

func (t UpdateType) String() string { return string(t) }

func (t UpdateType) IsValid() bool {
	switch t {
	case UpdateTypeStatus, UpdateTypeComment:
		return true
	}
	return false
}

// NotificationType tags a notification row.
type NotificationType string

const (
	NotificationTypeStatusChange NotificationType = "status_change"
	NotificationTypeUpdate       NotificationType = "update"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeStatusChange, NotificationTypeUpdate:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleCitizen  UserRole = "citizen"
	UserRoleOfficial UserRole = "official"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleCitizen, UserRoleOfficial, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool { return r == UserRoleAdmin }

// IsStakeholder reports whether the role may manage issue lifecycles.
func (r UserRole) IsStakeholder() bool {
	return r == UserRoleOfficial || r == UserRoleAdmin
}
