package ranking

import "github.com/leadscout/leadscout/internal/domain/search"

// weights is the fixed signal weight table. Weights sum to 1.0; absent
// signals renormalize by the sum of weights actually present.
var weights = map[search.Signal]float64{
	search.SignalTextMatch:         0.25,
	search.SignalVerification:      0.15,
	search.SignalDataQuality:       0.12,
	search.SignalPopularity:        0.10,
	search.SignalRecency:           0.08,
	search.SignalUserPreference:    0.12,
	search.SignalLocationProximity: 0.08,
	search.SignalIndustryRelevance: 0.10,
	search.SignalSeniority:         0.08,
	search.SignalCompanyScale:      0.07,
}

// Profile is a per-user multiplicative adjustment applied on top of the fixed
// weights when computing the personalized score. Missing signals default to
// a multiplier of 1.
type Profile map[search.Signal]float64

// DefaultProfile is the neutral profile used until interaction history seeds
// a better one.
func DefaultProfile() Profile { return Profile{} }

// Multiplier returns the adjustment for a signal.
func (p Profile) Multiplier(s search.Signal) float64 {
	if m, ok := p[s]; ok && m > 0 {
		return m
	}
	return 1
}

// Valid rejects profiles referencing unknown signals.
func (p Profile) Valid() bool {
	for s := range p {
		if !s.Known() {
			return false
		}
	}
	return true
}
