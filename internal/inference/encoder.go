package inference

import (
	"github.com/sirupsen/logrus"

	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/reference"
)

// FeatureVector is the numeric input of the regression model, in the
// exact column order the model was trained with: area size, bedrooms,
// parking flag, project flag, encoded area, encoded subtype, encoded
// registration type.
type FeatureVector []float64

// Encoder turns a property request into the model's feature vector.
type Encoder interface {
	Encode(req *models.PropertyRequest) FeatureVector
}

// labelIndex is an ordinal encoding of one categorical vocabulary,
// mirroring the label encoders the model was trained with.
type labelIndex struct {
	name    string
	byValue map[string]float64
}

func newLabelIndex(name string, classes []string) *labelIndex {
	byValue := make(map[string]float64, len(classes))
	for i, c := range classes {
		byValue[c] = float64(i)
	}
	return &labelIndex{name: name, byValue: byValue}
}

// encode maps a value to its ordinal. Unknown values fall back to the
// first training class, the same behavior the training pipeline used.
func (l *labelIndex) encode(value string, logger *logrus.Logger) float64 {
	if code, ok := l.byValue[value]; ok {
		return code
	}
	logger.WithFields(logrus.Fields{
		"encoder": l.name,
		"value":   value,
	}).Debug("Unknown categorical value, using default class")
	return 0
}

// FeatureEncoder encodes requests using the categorical vocabularies
// from the model metadata.
type FeatureEncoder struct {
	areas    *labelIndex
	subtypes *labelIndex
	regtypes *labelIndex
	logger   *logrus.Logger
}

// NewFeatureEncoder builds an encoder from model metadata. The class
// order in the metadata must match the training encoders.
func NewFeatureEncoder(meta *reference.ModelMetadata, logger *logrus.Logger) *FeatureEncoder {
	return &FeatureEncoder{
		areas:    newLabelIndex("area", meta.Areas),
		subtypes: newLabelIndex("subtype", meta.PropertySubtypes),
		regtypes: newLabelIndex("registration_type", meta.RegistrationTypes),
		logger:   logger,
	}
}

// Encode produces the feature vector for a request.
func (e *FeatureEncoder) Encode(req *models.PropertyRequest) FeatureVector {
	return FeatureVector{
		req.AreaSize,
		float64(req.Bedrooms),
		boolFeature(req.HasParking),
		boolFeature(req.HasProject),
		e.areas.encode(req.AreaName, e.logger),
		e.subtypes.encode(req.Subtype, e.logger),
		e.regtypes.encode(string(req.RegistrationType), e.logger),
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
