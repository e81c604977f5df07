package model

// User is a registered account able to obtain bearer tokens.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"column:username;uniqueIndex;size:255;not null"`
	KeyHash  string `json:"-" gorm:"column:userkey;size:255;not null"` // Never expose in JSON
}
