package queue

import "time"

// Routing keys on the portal's topic exchange.
const (
	KeyUserRegistered = "user.registered"
	KeyUserLoggedIn   = "user.loggedin"
	KeyInviteCreated  = "invite.created"
	KeyLoanApplied    = "loan.applied"
)

type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type InviteCreated struct {
	InviteID  string    `json:"invite_id"`
	Email     string    `json:"email"`
	InvitedBy string    `json:"invited_by"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoanApplied drives the application-received notification email.
type LoanApplied struct {
	ApplicationID string  `json:"application_id"`
	UserID        string  `json:"user_id"`
	Email         string  `json:"email"`
	Amount        float64 `json:"amount"`
	Purpose       string  `json:"purpose"`
}
