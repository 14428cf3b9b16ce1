package port

import "prokura/internal/domain"

// Classifier maps free-text titles to a commodity-group suggestion.
// Implementations must be deterministic and safe for concurrent use;
// the trained artifacts behind them are read-only after load.
type Classifier interface {
	Classify(title string) domain.CommodityGroupSuggestion
}
