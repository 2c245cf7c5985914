package model

import "time"

// User is an identity record. Email and the password credential are optional
// for accounts created through an OAuth provider; ProviderID is unique when
// present. IsFreelancer is set at registration and never changes afterwards.
type User struct {
	ID           string
	Email        *string
	PasswordHash *string
	Provider     *string
	ProviderID   *string
	IsFreelancer bool
	CreatedAt    time.Time
}

type Category struct {
	ID   string
	Name string
}

// Service is a freelancer's priced offering. Owner and Category are summary
// views filled in by read queries, nil on writes.
type Service struct {
	ID              string
	OwnerID         string
	CategoryID      string
	Title           string
	Price           float64
	DurationMinutes int
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Owner    *UserSummary
	Category *Category
}

type UserSummary struct {
	ID           string
	Email        *string
	IsFreelancer bool
}

// Appointment links a client to a service at a wall-clock start time. The end
// of its interval is never stored; it is derived from the owning service's
// current duration whenever a conflict decision is made.
type Appointment struct {
	ID          string
	ClientID    string
	ServiceID   string
	ScheduledAt time.Time
	CreatedAt   time.Time

	Service *Service
}

// Slot is the minimal view of an existing appointment needed to test it for
// overlap: its start plus the current duration of its own service.
type Slot struct {
	ID              string
	ScheduledAt     time.Time
	DurationMinutes int
}
