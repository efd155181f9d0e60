package models

import "time"

// Page activity actions.
const (
	ActivityActionCreated = "created"
	ActivityActionUpdated = "updated"
	ActivityActionDeleted = "deleted"
)

// PageView is an append-only record of a tracked page view.
type PageView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Path      string    `gorm:"size:512;not null;index" json:"path"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// PageActivity is an append-only record of a content mutation.
type PageActivity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PageID    *uint     `gorm:"index" json:"pageId"`
	PageName  string    `gorm:"size:255;not null" json:"pageName"`
	Action    string    `gorm:"size:32;not null;index" json:"action"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}
