package models

import "fmt"

// PropertyUsage is the top-level usage category of a property.
type PropertyUsage string

const (
	UsageResidential PropertyUsage = "Residential"
	UsageCommercial  PropertyUsage = "Commercial"
)

// PropertyType is the structural category of a property.
type PropertyType string

const (
	TypeUnit     PropertyType = "Unit"
	TypeVilla    PropertyType = "Villa"
	TypeLand     PropertyType = "Land"
	TypeBuilding PropertyType = "Building"
)

// RegistrationType distinguishes off-plan sales from completed stock.
type RegistrationType string

const (
	RegistrationOffPlan  RegistrationType = "Off-Plan Properties"
	RegistrationReady    RegistrationType = "Ready Properties"
	RegistrationExisting RegistrationType = "Existing Properties"
)

// Tier is the coarse pricing category assigned to a location area.
type Tier string

const (
	TierUltraLuxury Tier = "UltraLuxury"
	TierLuxury      Tier = "Luxury"
	TierPremium     Tier = "Premium"
	TierAverage     Tier = "Average"
	TierBudget      Tier = "Budget"
)

// Confidence describes how well a request conforms to observed data.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// PropertyRequest is a single valuation request as submitted by the caller.
// AreaSize is in square meters; Bedrooms of 0 means a studio.
type PropertyRequest struct {
	Usage            PropertyUsage    `json:"usage"`
	Type             PropertyType     `json:"type"`
	Subtype          string           `json:"subtype"`
	AreaSize         float64          `json:"area_size"`
	Bedrooms         int              `json:"bedrooms"`
	HasParking       bool             `json:"has_parking"`
	HasProject       bool             `json:"has_project"`
	AreaName         string           `json:"area_name"`
	RegistrationType RegistrationType `json:"registration_type"`
}

// BedroomLabel returns the display bucket for a bedroom count ("Studio", "2BR", ...).
func BedroomLabel(bedrooms int) string {
	if bedrooms <= 0 {
		return "Studio"
	}
	return fmt.Sprintf("%dBR", bedrooms)
}

// PriceRange is the ±10% band around the adjusted price.
type PriceRange struct {
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// PredictionResult is the engine's answer for a single property.
type PredictionResult struct {
	BasePrice       float64    `json:"base_price"`
	AdjustedPrice   float64    `json:"adjusted_price"`
	PricePerSqm     float64    `json:"price_per_sqm"`
	PriceRange      PriceRange `json:"price_range"`
	Tier            Tier       `json:"tier"`
	Multiplier      float64    `json:"multiplier"`
	ConfidenceLevel Confidence `json:"confidence_level"`
	Warnings        []string   `json:"warnings"`
}

// BatchItem is one entry of a batch response: exactly one of Result or
// Error is set.
type BatchItem struct {
	Result *PredictionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// BatchSummary aggregates the successful items of a batch.
type BatchSummary struct {
	Count                int     `json:"count"`
	AverageAdjustedPrice float64 `json:"average_adjusted_price"`
	TotalValue           float64 `json:"total_value"`
}
