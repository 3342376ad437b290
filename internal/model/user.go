package model

import "time"

// Role controls which parts of the API an account may call.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleManager       Role = "manager"
	RoleTeamLeader    Role = "teamLeader"
	RoleAuditor       Role = "auditor"
	RoleMasterAuditor Role = "masterAuditor"
)

// User is an account in the audit platform.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Role         Role      `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
