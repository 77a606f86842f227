package model

import (
	"time"

	"gorm.io/gorm"
)

// Note belongs to exactly one tenant and one author. TenantID and AuthorID
// are always taken from the verified token claims, never from client input,
// so a note's tenant always matches its author's tenant at creation time.
type Note struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Content   string         `json:"content" gorm:"type:text"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	AuthorID  uint           `json:"author_id" gorm:"index;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
