package model

import "gorm.io/datatypes"

// swagger:model Module
type Module struct {
	Base
	Title              string                      `gorm:"size:255;not null" json:"title"`
	Description        string                      `gorm:"type:text" json:"description"`
	Content            string                      `gorm:"type:text" json:"content"`
	Order              int                         `gorm:"column:sort_order;default:0" json:"order"`
	EstimatedTime      int                         `gorm:"default:0" json:"estimatedTime"` // Minutes
	LearningObjectives datatypes.JSONSlice[string] `json:"learningObjectives"`
	KeyConcepts        datatypes.JSONSlice[string] `json:"keyConcepts"`
	Sections           []Section                   `gorm:"foreignKey:ModuleID" json:"sections"`
}

func (Module) TableName() string {
	return "modules"
}

// TotalSections 进度计算以模块的小节数为准
func (m *Module) TotalSections() int {
	return len(m.Sections)
}

func (m *Module) HasSection(id string) bool {
	for _, s := range m.Sections {
		if s.ID == id {
			return true
		}
	}
	return false
}

// swagger:model Section
type Section struct {
	Base
	ModuleID string `gorm:"index;type:varchar(36);not null" json:"moduleId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text" json:"content"`
	Order    int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (Section) TableName() string {
	return "module_sections"
}
