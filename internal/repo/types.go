package repo

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProfessor
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Actor is the authenticated caller a service acts on behalf of.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the subset of a user another participant may see.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Department: u.Department}
}

type Availability struct {
	ID          uuid.UUID   `json:"id"`
	ProfessorID uuid.UUID   `json:"professorId"`
	Professor   *PublicUser `json:"professor,omitempty"`
	StartTime   time.Time   `json:"startTime"`
	EndTime     time.Time   `json:"endTime"`
	IsBooked    bool        `json:"isBooked"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type Appointment struct {
	ID             uuid.UUID         `json:"id"`
	StudentID      uuid.UUID         `json:"studentId"`
	ProfessorID    uuid.UUID         `json:"professorId"`
	AvailabilityID *uuid.UUID        `json:"availabilityId"`
	Status         AppointmentStatus `json:"status"`
	Notes          string            `json:"notes"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	Student      *PublicUser   `json:"student,omitempty"`
	Professor    *PublicUser   `json:"professor,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

// IsParticipant reports whether id is the appointment's student or professor.
func (a *Appointment) IsParticipant(id uuid.UUID) bool {
	return a.StudentID == id || a.ProfessorID == id
}

type Notification struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data"`
	ReadAt    *time.Time        `json:"readAt"`
	CreatedAt time.Time         `json:"createdAt"`
}
