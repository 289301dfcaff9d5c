package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// yamlRoute is the document layout of a YAML route file:
//
//	stops:
//	  - id: S1
//	    order: 0
//	    owner: ACME
//	    kind: pickup
//	    pallets:
//	      - {width: 120, height: 80, qty: 2}
//	  - {id: S2, order: 1, owner: ACME, kind: delivery, count: 2}
type yamlRoute struct {
	Stops []yamlStop `yaml:"stops"`
}

type yamlStop struct {
	ID      string       `yaml:"id"`
	Order   *int         `yaml:"order"`
	Owner   string       `yaml:"owner"`
	Kind    string       `yaml:"kind"`
	Count   *int         `yaml:"count"`
	Pallets []yamlPallet `yaml:"pallets"`
	Label   string       `yaml:"label"`
	Color   string       `yaml:"color"`
}

type yamlPallet struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Weight float64 `yaml:"weight"`
	Qty    int     `yaml:"qty"` // defaults to 1
}

// ImportYAML imports stops from a YAML route file.
func ImportYAML(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return ImportYAMLFromReader(bytes.NewReader(data))
}

// ImportYAMLFromReader imports stops from a YAML document.
func ImportYAMLFromReader(r io.Reader) ImportResult {
	result := ImportResult{}

	var route yamlRoute
	if err := yaml.NewDecoder(r).Decode(&route); err != nil {
		if err == io.EOF {
			result.Errors = append(result.Errors, "File is empty")
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("Cannot read YAML: %v", err))
		}
		return result
	}
	if len(route.Stops) == 0 {
		result.Errors = append(result.Errors, "No stops found")
		return result
	}

	byID := make(map[string]int)
	for i, ys := range route.Stops {
		entryLabel := fmt.Sprintf("Stop %d", i+1)
		stop, errMsg := ys.toStop(entryLabel, i)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if idx, ok := byID[stop.ID]; ok {
			errMsg, warning := mergeStop(&result.Stops[idx], stop, entryLabel)
			if errMsg != "" {
				result.Errors = append(result.Errors, errMsg)
			}
			if warning != "" {
				result.Warnings = append(result.Warnings, warning)
			}
			continue
		}
		byID[stop.ID] = len(result.Stops)
		result.Stops = append(result.Stops, stop)
	}
	return result
}

func (ys yamlStop) toStop(entryLabel string, index int) (model.Stop, string) {
	if ys.Owner == "" {
		return model.Stop{}, fmt.Sprintf("%s: Missing owner value", entryLabel)
	}
	kind, ok := model.ParseStopKind(ys.Kind)
	if !ok {
		return model.Stop{}, fmt.Sprintf("%s: Unknown stop kind '%s'", entryLabel, ys.Kind)
	}

	stop := model.Stop{
		ID:         ys.ID,
		OrderIndex: index,
		OwnerID:    ys.Owner,
		Kind:       kind,
		Label:      ys.Label,
		Color:      ys.Color,
	}
	if stop.ID == "" {
		stop.ID = fmt.Sprintf("S%d", index+1)
	}
	if ys.Order != nil {
		stop.OrderIndex = *ys.Order
	}

	// count adds standard pallets to the listed ones
	switch {
	case ys.Count != nil:
		if *ys.Count < 0 {
			return model.Stop{}, fmt.Sprintf("%s: Count must not be negative", entryLabel)
		}
		stop.Count = *ys.Count
	case len(ys.Pallets) == 0:
		stop.Count = 1
	}

	for _, p := range ys.Pallets {
		spec := model.PalletSpec{Width: p.Width, Height: p.Height, WeightKg: p.Weight}
		if err := spec.Validate(); err != nil {
			return model.Stop{}, fmt.Sprintf("%s: Width and height must be positive", entryLabel)
		}
		qty := p.Qty
		if qty <= 0 {
			qty = 1
		}
		for j := 0; j < qty; j++ {
			stop.Pallets = append(stop.Pallets, spec)
		}
	}
	return stop, ""
}
