package entity

import "time"

// Estados de un pallet.
const (
	PalletStatusAvailable   = "available"
	PalletStatusInUse       = "in_use"
	PalletStatusMaintenance = "maintenance"
)

// Pallet soporte físico sobre el que se arma una composición.
// Height es la altura máxima de carga (cm); MaxWeight en kg.
type Pallet struct {
	ID        string
	Name      string
	Status    string
	Width     float64
	Length    float64
	Height    float64
	MaxWeight float64
	CreatedAt time.Time
}

// Footprint área útil del pallet.
func (p Pallet) Footprint() float64 { return p.Width * p.Length }

// MaxVolume volumen máximo de carga.
func (p Pallet) MaxVolume() float64 { return p.Width * p.Length * p.Height }
