package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/utils"
)

// ThreadMessage is one message in a thread. Append-only.
type ThreadMessage struct {
	ID          string                `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	ThreadID    string                `gorm:"column:thread_id;type:varchar(50);index;not null" json:"threadId"`
	Direction   enum.MessageDirection `gorm:"column:direction;type:varchar(20);index;not null" json:"direction"`
	FromAddress string                `gorm:"column:from_address;type:varchar(255)" json:"fromAddress"`
	ToAddress   string                `gorm:"column:to_address;type:varchar(255)" json:"toAddress"`
	Subject     string                `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	BodyText    string                `gorm:"column:body_text;type:text" json:"bodyText"`
	BodyHTML    string                `gorm:"column:body_html;type:text" json:"bodyHtml"`
	SentAt      *time.Time            `gorm:"column:sent_at;type:timestamp;index" json:"sentAt"`
	CreatedAt   time.Time             `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
}

func (ThreadMessage) TableName() string {
	return "thread_messages"
}

func (m *ThreadMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = utils.GenerateNanoIDWithPrefix("tmsg", 16)
	}
	m.CreatedAt = utils.Now()
	return nil
}
