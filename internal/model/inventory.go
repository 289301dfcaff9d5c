package model

import "github.com/google/uuid"

// VehicleProfile describes a vehicle type and its cargo floor.
type VehicleProfile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Bed          TruckBed `json:"bed"`
	MaxPayloadKg float64  `json:"max_payload_kg"` // informational, not enforced
}

// NewVehicleProfile creates a new VehicleProfile with a generated ID.
func NewVehicleProfile(name string, length, width int, payloadKg float64) VehicleProfile {
	return VehicleProfile{
		ID:           uuid.New().String()[:8],
		Name:         name,
		Bed:          TruckBed{Length: length, Width: width},
		MaxPayloadKg: payloadKg,
	}
}

// PalletPreset is a named pallet footprint.
type PalletPreset struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Spec PalletSpec `json:"spec"`
}

// NewPalletPreset creates a new PalletPreset with a generated ID.
func NewPalletPreset(name string, width, height int) PalletPreset {
	return PalletPreset{
		ID:   uuid.New().String()[:8],
		Name: name,
		Spec: PalletSpec{Width: width, Height: height},
	}
}

// Inventory holds the user's saved vehicle profiles and pallet presets.
type Inventory struct {
	Vehicles []VehicleProfile `json:"vehicles"`
	Pallets  []PalletPreset   `json:"pallets"`
}

// DefaultInventory returns an inventory populated with common defaults.
func DefaultInventory() Inventory {
	return Inventory{
		Vehicles: []VehicleProfile{
			NewVehicleProfile("Van 3.5t", 403, 220, 1100),
			NewVehicleProfile("Box truck 7.5t", 620, 245, 2800),
			NewVehicleProfile("Rigid 12t", 720, 248, 5500),
			NewVehicleProfile("Semi trailer", 1360, 248, 24000),
		},
		Pallets: []PalletPreset{
			NewPalletPreset("EUR 1 (120x80)", 120, 80),
			NewPalletPreset("EUR 2 (120x100)", 120, 100),
			NewPalletPreset("Half pallet (80x60)", 80, 60),
			NewPalletPreset("Quarter pallet (60x40)", 60, 40),
		},
	}
}

// FindVehicleByID returns a pointer to the vehicle with the given ID, or nil.
func (inv *Inventory) FindVehicleByID(id string) *VehicleProfile {
	for i := range inv.Vehicles {
		if inv.Vehicles[i].ID == id {
			return &inv.Vehicles[i]
		}
	}
	return nil
}

// FindVehicleByName returns a pointer to the first vehicle with the given name, or nil.
func (inv *Inventory) FindVehicleByName(name string) *VehicleProfile {
	for i := range inv.Vehicles {
		if inv.Vehicles[i].Name == name {
			return &inv.Vehicles[i]
		}
	}
	return nil
}

// FindPalletByName returns a pointer to the first pallet preset with the given name, or nil.
func (inv *Inventory) FindPalletByName(name string) *PalletPreset {
	for i := range inv.Pallets {
		if inv.Pallets[i].Name == name {
			return &inv.Pallets[i]
		}
	}
	return nil
}

// VehicleNames returns the vehicle profile names in inventory order.
func (inv *Inventory) VehicleNames() []string {
	names := make([]string, len(inv.Vehicles))
	for i, v := range inv.Vehicles {
		names[i] = v.Name
	}
	return names
}
