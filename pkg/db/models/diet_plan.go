package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitcoachhq/fitcoach-backend/pkg/enums"
)

// DietPlan is authored by a coach and assigned to one client.
type DietPlan struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CoachID   uuid.UUID `gorm:"column:coach_id;type:uuid;not null;index"`
	ClientID  uuid.UUID `gorm:"column:client_id;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;not null"`
	Notes     *string   `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Meals []Meal `gorm:"foreignKey:DietPlanID;constraint:OnDelete:CASCADE"`
}

// Meal is a child of a diet plan, ordered within its weekday.
type Meal struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	DietPlanID  uuid.UUID     `gorm:"column:diet_plan_id;type:uuid;not null;index"`
	Day         enums.Weekday `gorm:"column:day;type:weekday;not null"`
	Position    int           `gorm:"column:position;not null"`
	Name        string        `gorm:"column:name;not null"`
	Calories    *int          `gorm:"column:calories"`
	ProteinG    *int          `gorm:"column:protein_g"`
	CarbsG      *int          `gorm:"column:carbs_g"`
	FatG        *int          `gorm:"column:fat_g"`
	Description *string       `gorm:"column:description"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime"`
}
