package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/pawtrail/mailroom/internal/utils"
)

// Pet holds the profile attributes the pipeline validates extracted documents
// against. The pipeline never mutates pets.
type Pet struct {
	ID              string     `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	OwnerUserID     string     `gorm:"column:owner_user_id;type:varchar(50);index;not null" json:"ownerUserId"`
	Name            string     `gorm:"column:name;type:varchar(255);not null" json:"name"`
	AnimalType      string     `gorm:"column:animal_type;type:varchar(50)" json:"animalType"`
	Breed           string     `gorm:"column:breed;type:varchar(255)" json:"breed"`
	Gender          string     `gorm:"column:gender;type:varchar(20)" json:"gender"`
	MicrochipNumber string     `gorm:"column:microchip_number;type:varchar(50);index" json:"microchipNumber"`
	BirthDate       *time.Time `gorm:"column:birth_date;type:date" json:"birthDate"`
	Country         string     `gorm:"column:country;type:varchar(2)" json:"country"`

	// MailboxAlias is the local-part of the pet's unique inbound address,
	// e.g. "rex-x1y2z3" for rex-x1y2z3@in.pawtrail.com.
	MailboxAlias string `gorm:"column:mailbox_alias;type:varchar(100);uniqueIndex;not null" json:"mailboxAlias"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"updatedAt"`
}

func (Pet) TableName() string {
	return "pets"
}

func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateNanoIDWithPrefix("pet", 16)
	}
	p.CreatedAt = utils.Now()
	return nil
}

// AgeYears derives the pet's age from its birth date, -1 when unknown.
func (p *Pet) AgeYears(at time.Time) int {
	if p.BirthDate == nil {
		return -1
	}
	years := at.Year() - p.BirthDate.Year()
	if at.YearDay() < p.BirthDate.YearDay() {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}
