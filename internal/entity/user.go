package entity

import "time"

const (
	UserRoleAdmin  = "admin"
	UserRoleUser   = "user"
	UserRoleViewer = "viewer"
)

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"column:username;type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"column:role;type:varchar(50);index;not null;default:user" json:"role"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is the public user projection returned to clients.
type UserSummary struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthRegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type AuthResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}
