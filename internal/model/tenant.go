package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plans. The only transition is FREE -> PRO via the upgrade
// endpoint; there is no downgrade path.
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// Tenant represents an organization. Every user and note belongs to exactly
// one tenant, and all note queries are filtered by tenant ID.
type Tenant struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug             string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	SubscriptionPlan string         `json:"subscription_plan" gorm:"type:varchar(20);not null;default:'FREE'"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
