package domain

import "time"

type DriveType string

const (
	DriveCar  DriveType = "CAR"
	DriveBike DriveType = "BIKE"
	DriveFoot DriveType = "FOOT"
)

type Courier struct {
	ID             string
	Name           string
	Role           string
	DriveType      DriveType
	OrganizationID string
	PlanID         string // enrolled GuaranteePlan, empty if none
	Online         bool
	LastLat        float64
	LastLon        float64
	LastSeenAt     time.Time
}

const RoleCourier = "COURIER"

// Eligible reports whether the user may open shifts at all.
func (c *Courier) Eligible() bool {
	return c.Role == RoleCourier && c.DriveType != ""
}

type Terminal struct {
	ID             string
	OrganizationID string
	Name           string
	Lat            float64
	Lon            float64
	// MaxDistanceMeters is the organization-configured radius a courier
	// must be within to open a shift at this terminal.
	MaxDistanceMeters float64
}

type CourierRepository interface {
	GetByID(courierID string) (*Courier, error)
	// SetPresence records the courier's last known location and online
	// flag, consumed by dispatch and the map view.
	SetPresence(courierID string, lat, lon float64, online bool) error
}

type TerminalRepository interface {
	GetByID(terminalID string) (*Terminal, error)
	ListByCourier(courierID string) ([]*Terminal, error)
	ListAll() ([]*Terminal, error)
}
