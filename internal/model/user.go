package model

import "time"

// User roles. Roles are assigned from the identity provider's claims
// (or an explicit grant-admin bootstrap); members cannot escalate
// themselves.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is a local identity record for an externally authenticated
// principal. Rows are upserted on first authenticated access, keyed by
// the provider's subject identifier.
//
// Fields:
//  ID      – primary key identifier.
//  Subject – external OIDC subject (users.subject, unique).
//  Email   – email address from the token claims.
//  Name    – display name from the token claims.
//  Role    – "member" or "admin".
type User struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
