package model

// Car is a vehicle record. A car is active while DeletedFlag is nil; deletion
// only sets the flag and the row is kept.
type Car struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Make        string `json:"make" gorm:"size:255;not null"`
	Model       string `json:"model" gorm:"size:255;not null"`
	Year        int    `json:"year" gorm:"not null"`
	DeletedFlag *bool  `json:"deleted_flag" gorm:"column:deleted_flag;type:tinyint(1);index"`
}

// TableName keeps the legacy singular table name.
func (Car) TableName() string {
	return "car"
}

// Active reports whether the car has not been soft-deleted.
func (c Car) Active() bool {
	return c.DeletedFlag == nil
}
