package application

import (
	"strings"

	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

// Fixed scoring rubric. Weights are constants, not configuration: the score
// must be deterministic and auditable, and two candidates with identical
// attributes must always land on the same number regardless of arrival order.
const (
	weightValueClearance = 30
	weightLanguageMatch  = 25
	weightAreaCoverage   = 25
	weightRating         = 10
	weightHighValueSkill = 10

	ratingFloor        = 4.7
	highValueThreshold = 50000.0
	highValueSkillTag  = "high_value_handling"

	maxScore = 100
)

// ComputeCompatibilityScore scores a candidate reply 0-100 against the
// episode's frozen shipment snapshot. Advisory only: candidates are never
// auto-ranked or auto-rejected on score.
func ComputeCompatibilityScore(request ports.SourcingRequest, profile ports.CandidateProfile) int {
	score := 0

	if profile.MaxValueClearance >= request.DeclaredValue {
		score += weightValueClearance
	}
	if request.RequiredLanguage != "" && containsFold(profile.Languages, request.RequiredLanguage) {
		score += weightLanguageMatch
	}
	if request.PickupCity != "" && containsFold(profile.AreaCoverage, request.PickupCity) {
		score += weightAreaCoverage
	}
	if profile.Rating >= ratingFloor {
		score += weightRating
	}
	if request.DeclaredValue > highValueThreshold && containsFold(profile.SpecialSkills, highValueSkillTag) {
		score += weightHighValueSkill
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}
