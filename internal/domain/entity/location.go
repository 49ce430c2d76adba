package entity

import (
	"time"
)

// Location is a reference entry mapping a provider location name to its
// timezone, used to interpret trail timestamps that carry no explicit offset.
type Location struct {
	ID        uint
	Name      string
	PortCode  string
	GmtTz     string
	TzName    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
