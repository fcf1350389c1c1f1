package database

import "time"

// Profile is the users table: physiological data, goals and today's totals
type Profile struct {
	UserID         int64 `gorm:"primaryKey;autoIncrement:false"`
	Weight         float64
	Height         float64
	Age            int
	Activity       int // minutes per day
	City           string
	WaterGoal      int // ml
	CalorieGoal    int // kcal
	WaterDrunk     float64   `gorm:"not null"`
	CaloriesEaten  float64   `gorm:"not null"`
	CaloriesBurned float64   `gorm:"not null"`
	LastResetDate  time.Time `gorm:"type:date;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LogEntry is one row of the append-only event log
type LogEntry struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;index"`
	Kind      string `gorm:"size:16;not null"` // water, food or workout
	Label     string
	Amount    float64
	RequestID string    `gorm:"size:64;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// Models lists every table managed by the application.
func Models() []interface{} {
	return []interface{}{&Profile{}, &LogEntry{}}
}
