package predictor

import "github.com/jonesrussell/campuswatch/internal/domain"

const maxSafetyTips = 8

var baselineSafetyTips = []string{
	"Stay aware of your surroundings at all times",
	"Travel in groups when possible, especially at night",
	"Keep valuables secure and out of sight",
	"Report any suspicious activity to campus security immediately",
	"Use well-lit pathways and avoid shortcuts through isolated areas",
}

var generalSafetyTips = []string{
	"Stay alert and trust your instincts",
	"Keep emergency contacts readily available",
	"Use campus safety apps and emergency call boxes",
	"Inform someone of your whereabouts when going out",
	"Avoid displaying expensive items in public",
}

// GenerateSafetyTips derives safety tips from the given predictions:
// their deduplicated preventive measures followed by a fixed general set,
// capped at eight. Without predictions a baseline list is returned.
func (g *Generator) GenerateSafetyTips(predictions []domain.CrimePrediction) []string {
	if len(predictions) == 0 {
		tips := make([]string, len(baselineSafetyTips))
		copy(tips, baselineSafetyTips)
		return tips
	}

	seen := make(map[string]bool)
	tips := make([]string, 0, maxSafetyTips)
	for _, p := range predictions {
		for _, m := range p.PreventiveMeasures {
			if !seen[m] {
				seen[m] = true
				tips = append(tips, m)
			}
		}
	}
	tips = append(tips, generalSafetyTips...)
	if len(tips) > maxSafetyTips {
		tips = tips[:maxSafetyTips]
	}
	return tips
}
