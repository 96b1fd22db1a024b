package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model UserProgress
type UserProgress struct {
	Base
	UserID              string                      `gorm:"uniqueIndex:idx_progress_user_module;type:varchar(64);not null" json:"userId"`
	ModuleID            string                      `gorm:"uniqueIndex:idx_progress_user_module;type:varchar(36);not null" json:"moduleId"`
	Completed           bool                        `gorm:"not null;default:false" json:"completed"`
	ProgressPercentage  int                         `gorm:"not null;default:0" json:"progressPercentage"`
	TimeSpent           int                         `gorm:"not null;default:0" json:"timeSpent"` // Minutes
	SectionsCompleted   datatypes.JSONSlice[string] `json:"sectionsCompleted"`
	LastAccessed        time.Time                   `json:"lastAccessed"`
	LastSectionAccessed *string                     `gorm:"type:varchar(36)" json:"lastSectionAccessed"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// AddSection 集合语义，已存在时返回 false
func (p *UserProgress) AddSection(sectionID string) bool {
	for _, id := range p.SectionsCompleted {
		if id == sectionID {
			return false
		}
	}
	p.SectionsCompleted = append(p.SectionsCompleted, sectionID)
	return true
}
