package domain

import "time"

// InviteTTL is how long an admin invite stays redeemable.
const InviteTTL = 7 * 24 * time.Hour

// AdminInvite is a single-use token allowing a new admin account to be
// onboarded. It becomes unusable after first use or after ExpiresAt, and may
// be revoked (deleted) before either.
type AdminInvite struct {
	ID         string     `bson:"_id" json:"id"`
	Email      string     `bson:"email" json:"email"`
	Token      string     `bson:"token" json:"token"`
	Department Department `bson:"department,omitempty" json:"department,omitempty"`
	InvitedBy  string     `bson:"invited_by" json:"invited_by"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	ExpiresAt  time.Time  `bson:"expires_at" json:"expires_at"`
	Used       bool       `bson:"used" json:"used"`
	UsedAt     *time.Time `bson:"used_at,omitempty" json:"used_at,omitempty"`
}
