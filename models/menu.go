package models

import (
	"time"
)

// Category groups menus on the kiosk screen
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Code         string    `gorm:"size:50;uniqueIndex;not null" json:"code"` // 'COFFEE', 'NON_COFFEE', ...
	Name         string    `gorm:"size:100;not null" json:"name"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Option group selection types
const (
	OptionTypeSingle   = "SINGLE"
	OptionTypeMultiple = "MULTIPLE"
)

// OptionGroup is a set of choices attachable to menus ('Temperature', 'Size')
type OptionGroup struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:100;not null" json:"name"`
	Icon         *string      `gorm:"size:10" json:"icon"`
	Type         string       `gorm:"size:20;not null" json:"type"` // SINGLE or MULTIPLE
	IsRequired   bool         `gorm:"not null;default:false" json:"is_required"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
	Items        []OptionItem `gorm:"foreignKey:OptionGroupID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TableName specifies the table name for the OptionGroup model
func (OptionGroup) TableName() string {
	return "option_groups"
}

// OptionItem is one selectable choice within an option group
type OptionItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OptionGroupID uint      `gorm:"not null;index" json:"option_group_id"`
	Name          string    `gorm:"size:100;not null" json:"name"` // 'HOT', 'ICE', 'Extra shot'
	Price         int       `gorm:"not null;default:0" json:"price"`
	IsDefault     bool      `gorm:"not null;default:false" json:"is_default"`
	DisplayOrder  int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the OptionItem model
func (OptionItem) TableName() string {
	return "option_items"
}

// Menu is one sellable item in the catalog
type Menu struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"size:100;not null" json:"name"`
	EngName      *string           `gorm:"size:100" json:"eng_name"`
	Price        int               `gorm:"not null" json:"price"`
	CategoryID   *uint             `gorm:"index" json:"category_id"`
	Category     *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description  *string           `gorm:"type:text" json:"description"`
	ImageS3Key   *string           `json:"image_s3_key"`
	ImageURL     *string           `gorm:"-" json:"image_url,omitempty"` // computed, presigned URL for image
	IsSoldOut    bool              `gorm:"not null;default:false" json:"is_sold_out"`
	IsActive     bool              `gorm:"not null;default:true" json:"is_active"`
	DisplayOrder int               `gorm:"not null;default:0" json:"display_order"`
	OptionGroups []MenuOptionGroup `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"option_groups,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the Menu model
func (Menu) TableName() string {
	return "menus"
}

// MenuOptionGroup links a menu to an option group
type MenuOptionGroup struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	MenuID        uint        `gorm:"not null;index;uniqueIndex:uq_menu_option" json:"menu_id"`
	OptionGroupID uint        `gorm:"not null;uniqueIndex:uq_menu_option" json:"option_group_id"`
	OptionGroup   OptionGroup `gorm:"foreignKey:OptionGroupID" json:"option_group"`
	DisplayOrder  int         `gorm:"not null;default:0" json:"display_order"`
}

// TableName specifies the table name for the MenuOptionGroup model
func (MenuOptionGroup) TableName() string {
	return "menu_option_groups"
}
