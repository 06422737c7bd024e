// Package entity 定义领域实体
package entity

import "time"

// TicketStatus 工单状态
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusAnswered TicketStatus = "answered"
	TicketStatusClosed   TicketStatus = "closed"
)

// Ticket 支持工单
type Ticket struct {
	ID        string       `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    string       `json:"user_id" gorm:"type:uuid;index;not null"`
	Subject   string       `json:"subject" gorm:"type:varchar(255);not null"`
	Body      string       `json:"body" gorm:"type:text;not null"`
	Status    TicketStatus `json:"status" gorm:"type:varchar(32);default:'open'"`
	Reply     string       `json:"reply,omitempty" gorm:"type:text"`
	RepliedAt *time.Time   `json:"replied_at,omitempty"`
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Ticket) TableName() string {
	return "tickets"
}

// Answer 管理员回复工单
func (t *Ticket) Answer(reply string) {
	now := time.Now()
	t.Reply = reply
	t.Status = TicketStatusAnswered
	t.RepliedAt = &now
}
