package schema

import (
	"time"

	"github.com/google/uuid"
)

// Employee rows are provisioned out of band (HR feed); the service only reads them.
type Employee struct {
	Code  string `gorm:"primaryKey;size:50" json:"code"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"uniqueIndex;size:254;not null" json:"email"`

	CreatedAt time.Time `json:"-"`
}

type Deal struct {
	Code         string  `gorm:"primaryKey;size:50" json:"code"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	ApproverCode *string `gorm:"size:50" json:"approver_code"`

	Members []DealMember `gorm:"foreignKey:DealCode;references:Code;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"-"`
}

type DealMember struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`

	DealCode   string `gorm:"size:50;not null;index" json:"deal_code"`
	MemberCode string `gorm:"size:50;not null" json:"member_code"`
	Role       string `gorm:"size:50" json:"role"`

	CreatedAt time.Time `json:"-"`
}

type Barrier struct {
	Code         string  `gorm:"primaryKey;size:50" json:"code"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	ApproverCode *string `gorm:"size:50" json:"approver_code"`

	Members []BarrierMember `gorm:"foreignKey:BarrierCode;references:Code;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"-"`
}

// Dates are carried as YYYY-MM-DD strings, validated before insert.
type BarrierMember struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`

	BarrierCode string  `gorm:"size:50;not null;index" json:"barrier_code"`
	MemberCode  string  `gorm:"size:50;not null" json:"member_code"`
	OnDate      string  `gorm:"size:10;not null" json:"on_date"`
	OffDate     *string `gorm:"size:10" json:"off_date"`
	Status      string  `gorm:"size:50;not null" json:"status"`
	DealCode    *string `gorm:"size:50" json:"deal_code"`
	Role        *string `gorm:"size:50" json:"role,omitempty"`

	CreatedAt time.Time `json:"-"`
}

func AllModels() []interface{} {
	return []interface{}{
		&Employee{}, &Deal{}, &DealMember{}, &Barrier{}, &BarrierMember{},
	}
}
