package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAmin    Role = "amin"
	RoleKhadem  Role = "khadem"
	RolePending Role = "pending"
	RoleGuest   Role = "guest"
)

// CanLogin reports whether accounts with this role may open a session.
// Pending and guest accounts wait for admin approval.
func (r Role) CanLogin() bool {
	switch r {
	case RoleAdmin, RoleAmin, RoleKhadem:
		return true
	default:
		return false
	}
}

// AtLeast reports whether r has at least the privilege of required.
// Ordering: admin > amin > khadem; pending and guest rank below all staff.
func (r Role) AtLeast(required Role) bool {
	return roleRank(r) >= roleRank(required)
}

func roleRank(r Role) int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleAmin:
		return 2
	case RoleKhadem:
		return 1
	default:
		return 0
	}
}

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type EventType string

const (
	EventService  EventType = "service"
	EventCamp     EventType = "camp"
	EventActivity EventType = "activity"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	Phone        *string
	PhotoURL     *string
	ClassID      *string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshSession struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent *string
	IPAddress *string
}

type Class struct {
	ID           string
	Name         string
	Description  string
	ScheduleDay  string
	ScheduleTime string
	Location     string
	AgeGroup     string
	KhademIDs    []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Makhdoum is an enrolled child. Code is the human-readable MKD-NNNNNN
// identifier printed on the child's badge.
type Makhdoum struct {
	ID                string
	Code              string
	FullName          string
	DateOfBirth       *time.Time
	ClassID           *string
	MotherName        *string
	MotherPhone       *string
	FatherName        *string
	FatherPhone       *string
	EmergencyContact  *string
	Address           *string
	Area              *string
	DiseasesAllergies *string
	Medications       *string
	SpecialNeeds      *string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Event struct {
	ID          string
	Name        string
	Type        EventType
	Description string
	StartAt     time.Time
	EndAt       time.Time
	Location    string
	Status      EventStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Team struct {
	ID           string
	Name         string
	Motto        string
	Icon         string
	PrimaryColor string
	ClassIDs     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Score is one append-only scan entry. Totals are always derived by
// summation, never stored.
type Score struct {
	ID         string
	EventID    string
	MakhdoumID string
	Score      int
	EnteredBy  string
	EnteredAt  time.Time
}
