package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"dubaiprice/server/internal/form"
	"dubaiprice/server/internal/inference"
	"dubaiprice/server/internal/models"
	"dubaiprice/server/internal/pricing"
	"dubaiprice/server/internal/queue"
	"dubaiprice/server/internal/reference"
	"dubaiprice/server/internal/validate"
)

// state tracks a request through the prediction pipeline. Transitions
// only move forward; rejection is terminal.
type state int

const (
	stateReceived state = iota
	stateFormResolved
	stateValidated
	statePriced
	stateRejected
)

func (s state) String() string {
	switch s {
	case stateReceived:
		return "received"
	case stateFormResolved:
		return "form_resolved"
	case stateValidated:
		return "validated"
	case statePriced:
		return "priced"
	case stateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Engine sequences form resolution, validation, model inference and
// price adjustment. It is stateless per call; all shared data lives in
// the immutable tables snapshot taken at the start of each request.
type Engine struct {
	store     *reference.Store
	encoder   inference.Encoder
	predictor inference.Predictor
	history   *queue.PredictionQueue
	workers   int
	logger    *logrus.Logger
}

// NewEngine creates a prediction engine. workers bounds the parallelism
// of batch evaluation.
func NewEngine(store *reference.Store, encoder inference.Encoder, predictor inference.Predictor, workers int, logger *logrus.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		store:     store,
		encoder:   encoder,
		predictor: predictor,
		workers:   workers,
		logger:    logger,
	}
}

// SetHistoryQueue enables best-effort prediction history recording.
func (e *Engine) SetHistoryQueue(q *queue.PredictionQueue) {
	e.history = q
}

// PredictOne runs the full pipeline for a single request. Hard
// structural errors (non-positive size, bedrooms on land) reject the
// request; everything else degrades to warnings and proceeds. The input
// request is never mutated.
func (e *Engine) PredictOne(ctx context.Context, req *models.PropertyRequest) (*models.PredictionResult, error) {
	tab := e.store.Current()

	// Work on a copy so auto-fill never leaks back to the caller.
	r := *req
	st := stateReceived
	e.logState(st, &r)

	resolver := form.NewResolver(tab)
	policy := resolver.Resolve(r.Usage, r.Type, r.Subtype)
	if r.AreaSize <= 0 && policy.State(form.FieldAreaSize) == form.FieldAutoFilled {
		if size, ok := resolver.SuggestSize(r.Bedrooms); ok {
			e.logger.WithFields(logrus.Fields{
				"bedrooms":  r.Bedrooms,
				"area_size": size,
			}).Debug("Auto-filled area_size from size-range average")
			r.AreaSize = size
		}
	}
	st = stateFormResolved
	e.logState(st, &r)

	if err := checkStructure(&r); err != nil {
		e.logState(stateRejected, &r)
		return nil, err
	}

	validator := validate.NewValidator(tab)
	warnings := validator.Validate(&r, policy)
	if r.AreaName != "" && !tab.AreaTiers.Contains(r.AreaName) {
		warnings = append(warnings, validate.Warning{
			Severity: validate.SeverityAdvisory,
			Message:  fmt.Sprintf("unknown area %q, assuming average pricing", r.AreaName),
		})
	}
	st = stateValidated
	e.logState(st, &r)

	features := e.encoder.Encode(&r)
	basePrice, err := e.predictor.Predict(ctx, features)
	if err != nil {
		e.logState(stateRejected, &r)
		return nil, fmt.Errorf("model inference failed: %w", err)
	}

	adjuster := pricing.NewAdjuster(tab.AreaTiers)
	tier, multiplier := adjuster.Lookup(r.AreaName)
	quote, err := adjuster.Adjust(basePrice, multiplier, r.AreaSize)
	if err != nil {
		e.logState(stateRejected, &r)
		return nil, err
	}
	st = statePriced

	result := &models.PredictionResult{
		BasePrice:       basePrice,
		AdjustedPrice:   quote.AdjustedPrice,
		PricePerSqm:     quote.PricePerSqm,
		PriceRange:      quote.Range,
		Tier:            tier,
		Multiplier:      multiplier,
		ConfidenceLevel: pricing.ConfidenceFrom(warnings),
		Warnings:        validate.Messages(warnings),
	}
	e.logState(st, &r)
	e.recordHistory(&r, result)
	return result, nil
}

// checkStructure enforces the hard invariants that make a prediction
// meaningless when violated.
func checkStructure(r *models.PropertyRequest) error {
	if r.AreaSize <= 0 {
		return models.NewStructuralError("area_size", fmt.Sprintf("must be positive, got %g", r.AreaSize))
	}
	if r.Bedrooms < 0 {
		return models.NewStructuralError("bedrooms", fmt.Sprintf("must be non-negative, got %d", r.Bedrooms))
	}
	if r.Type == models.TypeLand && r.Bedrooms > 0 {
		return models.NewStructuralError("bedrooms", "Land cannot have bedrooms")
	}
	return nil
}

// PredictBatch evaluates requests independently on a bounded worker
// pool. One item's rejection never aborts its siblings; the summary
// aggregates successful items only.
func (e *Engine) PredictBatch(ctx context.Context, reqs []*models.PropertyRequest) ([]models.BatchItem, models.BatchSummary) {
	items := make([]models.BatchItem, len(reqs))
	if len(reqs) == 0 {
		return items, models.BatchSummary{}
	}

	workers := e.workers
	if workers > len(reqs) {
		workers = len(reqs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := e.PredictOne(ctx, reqs[i])
				if err != nil {
					items[i] = models.BatchItem{Error: err.Error()}
					continue
				}
				items[i] = models.BatchItem{Result: result}
			}
		}()
	}
	for i := range reqs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var summary models.BatchSummary
	for _, item := range items {
		if item.Result == nil {
			continue
		}
		summary.Count++
		summary.TotalValue += item.Result.AdjustedPrice
	}
	if summary.Count > 0 {
		summary.AverageAdjustedPrice = summary.TotalValue / float64(summary.Count)
	}
	return items, summary
}

func (e *Engine) logState(st state, r *models.PropertyRequest) {
	e.logger.WithFields(logrus.Fields{
		"state":     st.String(),
		"area_name": r.AreaName,
		"subtype":   r.Subtype,
	}).Debug("Prediction state reached")
}

// recordHistory queues the prediction for persistence. Recording is
// best effort: a full or closed queue is logged and the response still
// succeeds.
func (e *Engine) recordHistory(r *models.PropertyRequest, result *models.PredictionResult) {
	if e.history == nil {
		return
	}
	record := &models.PredictionRecord{
		AreaName:         r.AreaName,
		Subtype:          r.Subtype,
		Bedrooms:         r.Bedrooms,
		AreaSize:         r.AreaSize,
		BasePrice:        result.BasePrice,
		AdjustedPrice:    result.AdjustedPrice,
		PricePerSqm:      result.PricePerSqm,
		Tier:             string(result.Tier),
		Multiplier:       result.Multiplier,
		Confidence:       string(result.ConfidenceLevel),
		WarningCount:     len(result.Warnings),
		RegistrationType: string(r.RegistrationType),
	}
	if err := e.history.Push(record); err != nil {
		e.logger.WithError(err).Warn("Failed to queue prediction record")
	}
}
