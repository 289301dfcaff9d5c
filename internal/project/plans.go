package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/plan"
)

// PlanExt is the file extension of saved plans.
const PlanExt = ".loadplan.json"

// SavedPlan is a route together with the live cargo set of one vehicle,
// including manual moves and rotations.
type SavedPlan struct {
	Version  string               `json:"version"`
	Name     string               `json:"name"`
	SavedAt  string               `json:"saved_at"`
	Vehicle  model.VehicleProfile `json:"vehicle"`
	Settings model.PlanSettings   `json:"settings"`
	Stops    []model.Stop         `json:"stops"`
	Units    []model.CargoUnit    `json:"units"`
}

// DefaultPlansDir returns the directory saved plans are stored in.
func DefaultPlansDir() string {
	return filepath.Join(DefaultConfigDir(), "plans")
}

// Snapshot captures the current state of p.
func Snapshot(name string, vehicle model.VehicleProfile, p *plan.Plan) SavedPlan {
	stops, units := p.State()
	return SavedPlan{
		Version:  BackupVersion,
		Name:     name,
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Vehicle:  vehicle,
		Settings: p.Settings(),
		Stops:    stops,
		Units:    units,
	}
}

// SavePlan writes a saved plan to path.
func SavePlan(path string, sp SavedPlan) error {
	if sp.Version == "" {
		sp.Version = BackupVersion
	}
	return writeJSON(path, sp)
}

// LoadPlan reads a saved plan from path.
func LoadPlan(path string) (SavedPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SavedPlan{}, err
	}
	var sp SavedPlan
	if err := json.Unmarshal(data, &sp); err != nil {
		return SavedPlan{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if sp.Vehicle.Bed.Length <= 0 || sp.Vehicle.Bed.Width <= 0 {
		return SavedPlan{}, fmt.Errorf("plan %q: vehicle bed %dx%d: %w",
			sp.Name, sp.Vehicle.Bed.Length, sp.Vehicle.Bed.Width, model.ErrInvalidGeometry)
	}
	return sp, nil
}

// Open rebuilds a live plan from the saved state. Unit positions are taken
// as saved, no placement is run.
func (sp SavedPlan) Open(opts ...plan.Option) (*plan.Plan, error) {
	opts = append([]plan.Option{plan.WithSettings(sp.Settings)}, opts...)
	p := plan.New(sp.Vehicle.Bed, opts...)
	if err := p.Restore(sp.Stops, sp.Units); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlans returns the saved plan files in dir, sorted by name.
// A missing directory yields an empty list.
func ListPlans(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), PlanExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
