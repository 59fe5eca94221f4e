package model

import "time"

type Setting struct {
	Key       string    `gorm:"column:config_key;primaryKey;type:varchar(64)"`
	Value     string    `gorm:"column:config_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string {
	return "config"
}
