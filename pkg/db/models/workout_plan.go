package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// WorkoutPlan is authored by a coach and assigned to one client.
type WorkoutPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CoachID   uuid.UUID `gorm:"column:coach_id;type:uuid;not null;index"`
	ClientID  uuid.UUID `gorm:"column:client_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;not null"`
	Notes     *string   `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Exercises []Exercise `gorm:"foreignKey:WorkoutPlanID;constraint:OnDelete:CASCADE"`
}

// Exercise is a child of a workout plan, ordered within its weekday.
type Exercise struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	WorkoutPlanID uuid.UUID     `gorm:"column:workout_plan_id;type:uuid;not null;index"`
	Day           enums.Weekday `gorm:"column:day;type:weekday;not null"`
	Position      int           `gorm:"column:position;not null"`
	Name          string        `gorm:"column:name;not null"`
	Sets          int           `gorm:"column:sets;not null"`
	Reps          int           `gorm:"column:reps;not null"`
	RestSeconds   *int          `gorm:"column:rest_seconds"`
	Instructions  *string       `gorm:"column:instructions"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime"`
}
