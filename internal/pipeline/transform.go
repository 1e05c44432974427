package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/drill-recommendation-service/internal/domain"
	"github.com/couchcryptid/drill-recommendation-service/internal/observability"
)

// RecommendationTransformer implements Transformer by running the drill
// engine over each roster snapshot.
type RecommendationTransformer struct {
	index   domain.RiskIndex
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a RecommendationTransformer over the given index.
func NewTransformer(index domain.RiskIndex, logger *slog.Logger, metrics *observability.Metrics) *RecommendationTransformer {
	return &RecommendationTransformer{
		index:   index,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *RecommendationTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	ev, err := domain.ParseRosterEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	rec := domain.RecommendForEvent(t.index, ev)
	t.metrics.MergedDrills.Observe(float64(len(rec.MergedDrills)))
	t.metrics.HighRiskStudents.Observe(float64(rec.RiskSummary.HighRiskStudentCount))
	if len(rec.MergedDrills) == 0 && rec.RiskSummary.TotalStudents > 0 {
		t.logger.Debug("no catalogued hazards for roster",
			"class_id", ev.ClassID,
			"locations", rec.DistinctLocations,
		)
	}

	return domain.SerializeRecommendation(rec)
}
