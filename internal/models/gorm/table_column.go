package gorm

import (
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// TableColumn describes one grid column.
type TableColumn struct {
	ID         string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name       string     `gorm:"column:name;not null" json:"name"`
	DataKey    string     `gorm:"column:data_key;not null;uniqueIndex" json:"dataKey"`
	Type       string     `gorm:"column:type;not null;default:'text'" json:"type"`
	SortOrder  int        `gorm:"column:sort_order;not null;default:0;index" json:"sortOrder"`
	IsEditable string     `gorm:"column:is_editable;not null;default:'true'" json:"isEditable"`
	Options    StringList `gorm:"column:options;type:jsonb" json:"options"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM
func (TableColumn) TableName() string {
	return "table_columns"
}

// BeforeCreate assigns an id when the caller did not supply one
func (c *TableColumn) BeforeCreate(tx *gormlib.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Options == nil {
		c.Options = StringList{}
	}
	return nil
}

// Editable decodes the boolean-as-string flag.
func (c *TableColumn) Editable() bool {
	return c.IsEditable != "false"
}
