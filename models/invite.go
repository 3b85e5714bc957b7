package models

import "time"

// PendingInvite is a share grant issued before the invitee has an account.
// It is resolved into a Membership and deleted the first time a session
// authenticates with a matching email.
type PendingInvite struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	ProjectID string     `gorm:"index;not null" json:"project_id"`
	Email     string     `gorm:"index;not null" json:"email"`
	Role      MemberRole `gorm:"not null" json:"role"`
	InvitedBy string     `json:"invited_by"`
	CreatedAt time.Time  `json:"created_at"`
}
