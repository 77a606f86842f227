package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold within their tenant. Role is fixed at creation.
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// User represents the user model stored in the database. Password holds a
// bcrypt hash, never a plaintext credential.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'MEMBER'"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tenant Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}
