package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

// ThreadReadStatus tracks how far a user has read a thread. Unread counts are
// derived from it, never stored.
type ThreadReadStatus struct {
	ID         string    `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	UserID     string    `gorm:"column:user_id;type:varchar(50);uniqueIndex:idx_read_user_thread;not null" json:"userId"`
	ThreadID   string    `gorm:"column:thread_id;type:varchar(50);uniqueIndex:idx_read_user_thread;not null" json:"threadId"`
	LastReadAt time.Time `gorm:"column:last_read_at;type:timestamp;not null" json:"lastReadAt"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (ThreadReadStatus) TableName() string {
	return "thread_read_status"
}

func (s *ThreadReadStatus) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = utils.GenerateNanoIDWithPrefix("read", 12)
	}
	s.CreatedAt = utils.Now()
	return nil
}
