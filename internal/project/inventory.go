package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// DefaultInventoryPath returns the default file path for the inventory file.
// This is located at ~/.loadplan/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			if saveErr := SaveInventory(path, inv); saveErr != nil {
				return inv, saveErr
			}
			return inv, nil
		}
		return model.Inventory{}, err
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, err
	}
	return inv, nil
}

// LoadOrCreateInventory loads the inventory from the default path.
// If the file does not exist, it creates one with default entries.
func LoadOrCreateInventory() (model.Inventory, string, error) {
	path := DefaultInventoryPath()
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory reads an inventory file and merges it into existing.
// Entries whose ID or name is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, err
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, err
	}
	return MergeInventory(existing, imported), nil
}

// MergeInventory appends the vehicles and pallet presets of imported that
// existing does not already have.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	seen := make(map[string]bool, len(existing.Vehicles)+len(existing.Pallets))
	for _, v := range existing.Vehicles {
		seen["v:"+v.ID] = true
		seen["v:"+v.Name] = true
	}
	for _, p := range existing.Pallets {
		seen["p:"+p.ID] = true
		seen["p:"+p.Name] = true
	}

	for _, v := range imported.Vehicles {
		if seen["v:"+v.ID] || seen["v:"+v.Name] {
			continue
		}
		existing.Vehicles = append(existing.Vehicles, v)
		seen["v:"+v.ID], seen["v:"+v.Name] = true, true
	}
	for _, p := range imported.Pallets {
		if seen["p:"+p.ID] || seen["p:"+p.Name] {
			continue
		}
		existing.Pallets = append(existing.Pallets, p)
		seen["p:"+p.ID], seen["p:"+p.Name] = true, true
	}
	return existing
}
