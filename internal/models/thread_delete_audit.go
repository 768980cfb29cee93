package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/utils"
)

// ThreadDeleteAudit records every soft delete and restore of a thread. Append-only.
type ThreadDeleteAudit struct {
	ID          string                 `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ThreadID    string                 `gorm:"column:thread_id;type:varchar(50);index;not null" json:"threadId"`
	Action      enum.ThreadAuditAction `gorm:"column:action;type:varchar(20);not null" json:"action"`
	ActorUserID string                 `gorm:"column:actor_user_id;type:varchar(50)" json:"actorUserId"`
	CreatedAt   time.Time              `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (ThreadDeleteAudit) TableName() string {
	return "email_delete_audit"
}

func (a *ThreadDeleteAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = utils.GenerateNanoIDWithPrefix("audt", 12)
	}
	a.CreatedAt = utils.Now()
	return nil
}
