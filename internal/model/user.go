package model

// UserRole 用户本身由认证服务管理，这里只保留令牌里携带的角色
type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == Student || r == Admin
}
