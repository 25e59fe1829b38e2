package domain

import "time"

// SysOpr is an administrative operator account used for API authentication.
type SysOpr struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Realname  string    `json:"realname" form:"realname"`
	Email     string    `json:"email" form:"email"`
	Username  string    `gorm:"uniqueIndex;size:64" json:"username" form:"username"`
	Password  string    `json:"-" form:"password"` // bcrypt hash, never serialized
	Level     string    `json:"level" form:"level"`
	Status    string    `json:"status" form:"status"`
	Remark    string    `json:"remark" form:"remark"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysOpr) TableName() string {
	return "sys_opr"
}
