package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/export"
	"github.com/piwi3910/LoadPlan/internal/importer"
	"github.com/piwi3910/LoadPlan/internal/logger"
	"github.com/piwi3910/LoadPlan/internal/model"
	"github.com/piwi3910/LoadPlan/internal/plan"
	"github.com/piwi3910/LoadPlan/internal/project"
)

type globalOptions struct {
	configPath    string
	inventoryPath string
	logLevel      string
}

// runState is what every subcommand needs once flags are parsed.
type runState struct {
	configPath    string
	config        model.AppConfig
	inventoryPath string
	inventory     model.Inventory
	settings      model.PlanSettings
}

var state runState

type exportOptions struct {
	pdfPath      string
	labelsPath   string
	manifestPath string
	savePath     string
	name         string
}

func (o *exportOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.pdfPath, "pdf", "", "write a PDF load sheet")
	cmd.Flags().StringVar(&o.labelsPath, "labels", "", "write a PDF of QR pallet labels")
	cmd.Flags().StringVar(&o.manifestPath, "manifest", "", "write an XLSX manifest")
}

// setup loads .env, the configuration and the inventory, and configures
// logging.
func setup(opts globalOptions) error {
	// A missing .env is normal
	envErr := godotenv.Load()

	state.configPath = opts.configPath
	if state.configPath == "" {
		state.configPath = project.DefaultConfigPath()
	}
	config, err := project.LoadAppConfig(state.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config = project.ApplyEnv(config)
	if opts.logLevel != "" {
		config.LogLevel = strings.ToLower(opts.logLevel)
	}
	state.config = config

	logger.Init(config.LogLevel, config.PrettyLogs)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("ignoring .env file")
	}

	config.ApplyToSettings(&state.settings)

	state.inventoryPath = opts.inventoryPath
	if state.inventoryPath == "" {
		state.inventoryPath = project.DefaultInventoryPath()
	}
	state.inventory, err = project.LoadInventory(state.inventoryPath)
	if err != nil {
		return fmt.Errorf("loading inventory: %w", err)
	}

	log.Debug().
		Str("config", state.configPath).
		Str("inventory", state.inventoryPath).
		Int("grid_step", state.settings.GridStep).
		Msg("configuration loaded")
	return nil
}

// findVehicle looks a vehicle up by name, then by id. An empty key selects
// the configured default.
func findVehicle(inv model.Inventory, key, fallback string) (model.VehicleProfile, error) {
	if key == "" {
		key = fallback
	}
	if v := inv.FindVehicleByName(key); v != nil {
		return *v, nil
	}
	if v := inv.FindVehicleByID(key); v != nil {
		return *v, nil
	}
	return model.VehicleProfile{}, fmt.Errorf("vehicle %q not in inventory (known: %s)",
		key, strings.Join(inv.VehicleNames(), ", "))
}

// loadRoute imports a route file and logs its warnings. Import errors
// abort unless some stops were still read.
func loadRoute(path string) ([]model.Stop, error) {
	result := importer.Import(path)
	for _, w := range result.Warnings {
		log.Warn().Str("file", path).Msg(w)
	}
	for _, e := range result.Errors {
		log.Error().Str("file", path).Msg(e)
	}
	if len(result.Stops) == 0 {
		return nil, fmt.Errorf("no usable stops in %s", path)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%s has %d invalid rows", path, len(result.Errors))
	}
	log.Info().Str("file", path).Int("stops", len(result.Stops)).Msg("route imported")
	return result.Stops, nil
}

func runPlan(routePath, vehicleKey string, out exportOptions) error {
	stops, err := loadRoute(routePath)
	if err != nil {
		return err
	}
	vehicle, err := findVehicle(state.inventory, vehicleKey, state.config.DefaultVehicle)
	if err != nil {
		return err
	}

	fleet := plan.NewFleet(state.settings, logger.Component("plan"))
	p, err := fleet.Open(vehicle)
	if err != nil {
		return err
	}
	if err := p.SetRoute(stops); err != nil {
		return fmt.Errorf("planning route: %w", err)
	}

	sheet := export.NewLoadSheet(vehicle, p)
	printPlan(os.Stdout, sheet)

	if err := writeExports(sheet, out); err != nil {
		return err
	}

	if out.savePath != "" {
		name := out.name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(routePath), filepath.Ext(routePath))
		}
		if err := project.SavePlan(out.savePath, project.Snapshot(name, vehicle, p)); err != nil {
			return fmt.Errorf("saving plan: %w", err)
		}
		log.Info().Str("file", out.savePath).Msg("plan saved")
	}

	if abs, err := filepath.Abs(routePath); err == nil {
		state.config.AddRecentRoute(abs)
		if err := project.SaveAppConfig(state.configPath, state.config); err != nil {
			log.Warn().Err(err).Msg("could not update recent routes")
		}
	}
	return nil
}

func runCompare(routePath string) error {
	stops, err := loadRoute(routePath)
	if err != nil {
		return err
	}
	if len(state.inventory.Vehicles) == 0 {
		return fmt.Errorf("inventory has no vehicles")
	}

	results, err := engine.CompareVehicles(state.inventory.Vehicles, stops, state.settings)
	if err != nil {
		return fmt.Errorf("comparing vehicles: %w", err)
	}
	printComparison(os.Stdout, results, engine.BestVehicle(results))
	return nil
}

func runShow(planPath, stopID string, out exportOptions) error {
	sp, err := project.LoadPlan(planPath)
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}
	p, err := sp.Open(plan.WithLogger(logger.Component("plan")))
	if err != nil {
		return fmt.Errorf("opening plan: %w", err)
	}

	sheet := export.NewLoadSheet(sp.Vehicle, p)
	if stopID != "" {
		aboard, err := p.Project(stopID)
		if err != nil {
			return err
		}
		printUnits(os.Stdout, fmt.Sprintf("Aboard after stop %s", stopID), aboard)
	} else {
		printPlan(os.Stdout, sheet)
	}
	return writeExports(sheet, out)
}

func runPlans(dir string) error {
	if dir == "" {
		dir = project.DefaultPlansDir()
	}
	paths, err := project.ListPlans(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No saved plans in %s\n", dir)
		return nil
	}
	for _, path := range paths {
		sp, err := project.LoadPlan(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable plan")
			continue
		}
		fmt.Printf("%-30s %-16s %3d units  %s\n", sp.Name, sp.Vehicle.Name, len(sp.Units), sp.SavedAt)
	}
	return nil
}

func runConfig(save bool) error {
	data, err := json.MarshalIndent(state.config, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	if !save {
		return nil
	}
	if err := project.SaveAppConfig(state.configPath, state.config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	log.Info().Str("file", state.configPath).Msg("config saved")
	return nil
}

func writeExports(sheet export.LoadSheet, out exportOptions) error {
	if out.pdfPath != "" {
		if err := export.ExportLoadSheet(out.pdfPath, sheet); err != nil {
			return fmt.Errorf("writing load sheet: %w", err)
		}
		log.Info().Str("file", out.pdfPath).Msg("load sheet written")
	}
	if out.labelsPath != "" {
		if err := export.ExportLabels(out.labelsPath, sheet); err != nil {
			return fmt.Errorf("writing labels: %w", err)
		}
		log.Info().Str("file", out.labelsPath).Msg("labels written")
	}
	if out.manifestPath != "" {
		if err := export.ExportManifest(out.manifestPath, sheet); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
		log.Info().Str("file", out.manifestPath).Msg("manifest written")
	}
	return nil
}
