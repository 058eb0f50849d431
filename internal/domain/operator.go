package domain

import (
	"time"
)

type Role string

const (
	RoleDoctor      Role = "医生"
	RoleHeadNurse   Role = "护士长"
	RoleCoordinator Role = "调度管理员"
)

// Operator: 使用本系统的院内工作人员
type Operator struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
