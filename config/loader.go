package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"

	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

// File names expected inside the reference directory.
const (
	sizeRangesFile    = "size_ranges.json"
	areaTiersFile     = "area_tiers.json"
	formRulesFile     = "form_rules.json"
	modelMetadataFile = "model_metadata.json"
)

type sizeRangesDoc struct {
	SizeRanges map[string]reference.SizeRange `json:"size_ranges"`
}

type areaTierDoc struct {
	Areas map[string]struct {
		Tier       models.Tier `json:"tier"`
		Multiplier float64     `json:"multiplier"`
		Centroid   []float64   `json:"centroid"`
	} `json:"areas"`
}

type formRuleDoc struct {
	Required      []string            `json:"required"`
	Hidden        []string            `json:"hidden"`
	AutoFill      map[string]string   `json:"auto_fill"`
	SubtypeHidden map[string][]string `json:"subtype_hidden"`
}

type formRulesDoc struct {
	PropertyTypeByUsage     map[models.PropertyUsage][]models.PropertyType               `json:"property_type_by_usage"`
	PropertySubtypeByType   map[models.PropertyType][]string                             `json:"property_subtype_by_type"`
	Rules                   map[models.PropertyUsage]map[models.PropertyType]formRuleDoc `json:"rules"`
	PropertySubtypeProfiles map[string]reference.SubtypeProfile                          `json:"subtype_profiles"`
}

// LoadTables reads all reference data files from dir and builds the
// immutable tables bundle. Any structural problem in the data (ordering
// violations, impossible ranges) fails the load as a whole.
func LoadTables(dir string) (*reference.Tables, error) {
	sizes, err := loadSizeRanges(filepath.Join(dir, sizeRangesFile))
	if err != nil {
		return nil, err
	}
	areas, err := loadAreaTiers(filepath.Join(dir, areaTiersFile))
	if err != nil {
		return nil, err
	}
	forms, err := loadFormRules(filepath.Join(dir, formRulesFile))
	if err != nil {
		return nil, err
	}
	meta, err := loadModelMetadata(filepath.Join(dir, modelMetadataFile))
	if err != nil {
		return nil, err
	}

	return &reference.Tables{
		SizeRanges: sizes,
		AreaTiers:  areas,
		FormRules:  forms,
		Metadata:   meta,
	}, nil
}

func loadSizeRanges(path string) (*reference.SizeRangeTable, error) {
	var doc sizeRangesDoc
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}
	table, err := reference.NewSizeRangeTable(doc.SizeRanges)
	if err != nil {
		return nil, fmt.Errorf("invalid size ranges in %s: %w", path, err)
	}
	return table, nil
}

func loadAreaTiers(path string) (*reference.AreaTierTable, error) {
	var doc areaTierDoc
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}

	entries := make(map[string]reference.AreaTier, len(doc.Areas))
	for name, a := range doc.Areas {
		entry := reference.AreaTier{Tier: a.Tier, Multiplier: a.Multiplier}
		if len(a.Centroid) == 2 {
			// Centroids are stored as [lon, lat].
			p := orb.Point{a.Centroid[0], a.Centroid[1]}
			entry.Centroid = &p
		}
		entries[name] = entry
	}

	table, err := reference.NewAreaTierTable(entries)
	if err != nil {
		return nil, fmt.Errorf("invalid area tiers in %s: %w", path, err)
	}
	return table, nil
}

func loadFormRules(path string) (*reference.FormRuleTable, error) {
	var doc formRulesDoc
	if err := readJSON(path, &doc); err != nil {
		return nil, err
	}

	rules := make(map[models.PropertyUsage]map[models.PropertyType]reference.FormRule)
	for usage, byType := range doc.Rules {
		rules[usage] = make(map[models.PropertyType]reference.FormRule, len(byType))
		for ptype, r := range byType {
			rules[usage][ptype] = reference.FormRule{
				Required:      r.Required,
				Hidden:        r.Hidden,
				AutoFill:      r.AutoFill,
				SubtypeHidden: r.SubtypeHidden,
			}
		}
	}

	table, err := reference.NewFormRuleTable(reference.FormRuleTableInput{
		Rules:          rules,
		TypesByUsage:   doc.PropertyTypeByUsage,
		SubtypesByType: doc.PropertySubtypeByType,
		Profiles:       doc.PropertySubtypeProfiles,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid form rules in %s: %w", path, err)
	}
	return table, nil
}

func loadModelMetadata(path string) (*reference.ModelMetadata, error) {
	var meta reference.ModelMetadata
	if err := readJSON(path, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readJSON(path string, out interface{}) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %v", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read reference file: %v", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %v", filepath.Base(path), err)
	}
	return nil
}
