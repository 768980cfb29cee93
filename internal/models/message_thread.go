package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/enum"
	"github.com/pawtrail/mailroom/internal/utils"
)

// MessageThread is a conversation between a pet's mailbox and one counterparty
// address. Threads are soft-deleted only; messages and extracted records survive
// a delete.
type MessageThread struct {
	ID                  string              `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	PetID               string              `gorm:"column:pet_id;type:varchar(50);uniqueIndex:idx_thread_pet_counterparty;not null" json:"petId"`
	CounterpartyAddress string              `gorm:"column:counterparty_address;type:varchar(255);uniqueIndex:idx_thread_pet_counterparty;not null" json:"counterpartyAddress"`
	CounterpartyName    string              `gorm:"column:counterparty_name;type:varchar(255)" json:"counterpartyName"`
	Subject             string              `gorm:"column:subject;type:varchar(1000)" json:"subject"`
	SenderCategory      enum.SenderCategory `gorm:"column:sender_category;type:varchar(50)" json:"senderCategory"`

	// ReplyAddress routes owner replies back into this thread. Unique system-wide.
	ReplyAddress string `gorm:"column:reply_address;type:varchar(255);uniqueIndex;not null" json:"replyAddress"`

	MessageCount  int        `gorm:"column:message_count;default:0" json:"messageCount"`
	LastMessageAt *time.Time `gorm:"column:last_message_at;type:timestamp" json:"lastMessageAt"`

	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deletedAt"`
}

func (MessageThread) TableName() string {
	return "message_threads"
}

func (t *MessageThread) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.GenerateNanoIDWithPrefix("thrd", 16)
	}
	t.CreatedAt = utils.Now()
	return nil
}
