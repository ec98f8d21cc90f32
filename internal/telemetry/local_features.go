package telemetry

import (
	"context"

	"github.com/petasbytes/go-pilot/internal/metrics"
)

// FeaturesVersion is bumped whenever the shape of local_features changes.
const FeaturesVersion = "2"

// EmitLocalFeatures records size features of a user input, never the text
// itself. Only active in calibration mode with observation on.
func EmitLocalFeatures(ctx context.Context, user string) {
	if !(CalibrationModeEnabled() && ObserveEnabled()) {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(user)
	Emit("local_features", map[string]any{
		"turn_id":          turnID,
		"features_version": FeaturesVersion,
		"user": map[string]any{
			"bytes":            f.Bytes,
			"runes":            f.Runes,
			"words":            f.Words,
			"lines":            f.Lines,
			"estimated_tokens": f.EstimatedTokens,
		},
	})
}
