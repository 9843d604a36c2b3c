package models

// Project is the external aggregate owner. The workspace core only resolves
// it by ID; creation and the rest of its lifecycle live in another service.
type Project struct {
	Base
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ClientName  string `gorm:"type:varchar(255)" json:"clientName"`
	UserID      string `gorm:"type:varchar(255);not null;index" json:"userId"`
	Status      string `gorm:"type:varchar(64);not null;default:'active'" json:"status"`
}

func (Project) TableName() string { return "projects" }
