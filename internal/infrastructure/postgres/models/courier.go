package models

import "time"

type CourierModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	Name           string
	Role           string
	DriveType      string
	OrganizationID string `gorm:"type:uuid;index"`
	PlanID         string `gorm:"type:uuid"`
	Online         bool
	LastLat        float64
	LastLon        float64
	LastSeenAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CourierModel) TableName() string { return "couriers" }

type TerminalModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	OrganizationID    string `gorm:"type:uuid;index"`
	Name              string
	Lat               float64
	Lon               float64
	MaxDistanceMeters float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (TerminalModel) TableName() string { return "terminals" }

type CourierTerminalModel struct {
	CourierID  string `gorm:"primaryKey;type:uuid"`
	TerminalID string `gorm:"primaryKey;type:uuid"`
}

func (CourierTerminalModel) TableName() string { return "courier_terminals" }
