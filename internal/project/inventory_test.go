package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LoadPlan/internal/model"
)

func TestDefaultInventoryPath(t *testing.T) {
	path := DefaultInventoryPath()
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	dir := filepath.Base(filepath.Dir(path))
	if dir != ".loadplan" {
		t.Errorf("expected parent dir .loadplan, got %s", dir)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test_inventory.json")

	inv := model.Inventory{
		Vehicles: []model.VehicleProfile{
			model.NewVehicleProfile("Test Van", 400, 200, 1200),
		},
		Pallets: []model.PalletPreset{
			model.NewPalletPreset("Test Pallet", 100, 100),
		},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("inventory file was not created")
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(loaded.Vehicles))
	}
	if loaded.Vehicles[0].Bed != (model.TruckBed{Length: 400, Width: 200}) {
		t.Errorf("expected bed 400x200, got %+v", loaded.Vehicles[0].Bed)
	}
	if loaded.Vehicles[0].ID != inv.Vehicles[0].ID {
		t.Errorf("expected vehicle ID %s, got %s", inv.Vehicles[0].ID, loaded.Vehicles[0].ID)
	}
	if len(loaded.Pallets) != 1 || loaded.Pallets[0].Spec.Width != 100 {
		t.Errorf("expected one 100 wide pallet preset, got %+v", loaded.Pallets)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Vehicles) != len(model.DefaultInventory().Vehicles) {
		t.Errorf("expected default vehicles, got %d", len(inv.Vehicles))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("default inventory should have been saved")
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventoryMergesAndSkipsDuplicates(t *testing.T) {
	existing := model.DefaultInventory()
	imported := model.Inventory{
		Vehicles: []model.VehicleProfile{
			existing.Vehicles[0],
			model.NewVehicleProfile("Van 3.5t", 400, 200, 1000), // same name, new ID
			model.NewVehicleProfile("Mega trailer", 1360, 248, 24000),
		},
		Pallets: []model.PalletPreset{
			model.NewPalletPreset("Display", 60, 40),
		},
	}
	data, err := json.Marshal(imported)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	merged, err := ImportInventory(path, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}

	if len(merged.Vehicles) != len(existing.Vehicles)+1 {
		t.Errorf("expected %d vehicles, got %d", len(existing.Vehicles)+1, len(merged.Vehicles))
	}
	if merged.FindVehicleByName("Mega trailer") == nil {
		t.Error("expected imported vehicle to be present")
	}
	if len(merged.Pallets) != len(existing.Pallets)+1 {
		t.Errorf("expected %d pallets, got %d", len(existing.Pallets)+1, len(merged.Pallets))
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()

	got, err := ImportInventory(filepath.Join(t.TempDir(), "missing.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(got.Vehicles) != len(existing.Vehicles) {
		t.Error("existing inventory should be returned unchanged")
	}
}
