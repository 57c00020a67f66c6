package application

import (
	"testing"

	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

func TestComputeCompatibilityScoreFullMatch(t *testing.T) {
	request := ports.SourcingRequest{
		DeclaredValue:    75000,
		RequiredLanguage: "fr",
		PickupCity:       "Paris",
	}
	profile := ports.CandidateProfile{
		OperatorID:        "op-1",
		MaxValueClearance: 100000,
		Languages:         []string{"FR", "en"},
		AreaCoverage:      []string{"paris", "Lyon"},
		Rating:            4.8,
		SpecialSkills:     []string{"high_value_handling"},
	}
	if score := ComputeCompatibilityScore(request, profile); score != 100 {
		t.Fatalf("expected score 100, got %d", score)
	}
}

func TestComputeCompatibilityScorePartialMatch(t *testing.T) {
	request := ports.SourcingRequest{
		DeclaredValue:    125000,
		RequiredLanguage: "de",
		PickupCity:       "Berlin",
	}
	profile := ports.CandidateProfile{
		OperatorID:        "op-2",
		MaxValueClearance: 100000, // below declared value: no clearance points
		Languages:         []string{"de"},
		AreaCoverage:      []string{"Munich"}, // no coverage points
		Rating:            4.6,                // below the rating floor
		SpecialSkills:     nil,                // no high-value skill
	}
	if score := ComputeCompatibilityScore(request, profile); score != 25 {
		t.Fatalf("expected score 25 (language only), got %d", score)
	}
}

func TestComputeCompatibilityScoreHighValueSkillNeedsThreshold(t *testing.T) {
	profile := ports.CandidateProfile{
		OperatorID:        "op-3",
		MaxValueClearance: 200000,
		SpecialSkills:     []string{"high_value_handling"},
	}

	low := ports.SourcingRequest{DeclaredValue: 40000}
	if score := ComputeCompatibilityScore(low, profile); score != 30 {
		t.Fatalf("expected 30 for sub-threshold value, got %d", score)
	}
	high := ports.SourcingRequest{DeclaredValue: 60000}
	if score := ComputeCompatibilityScore(high, profile); score != 40 {
		t.Fatalf("expected 40 with high-value skill bonus, got %d", score)
	}
}

func TestComputeCompatibilityScoreNoRequiredLanguage(t *testing.T) {
	request := ports.SourcingRequest{DeclaredValue: 10000}
	profile := ports.CandidateProfile{
		OperatorID:        "op-4",
		MaxValueClearance: 20000,
		Languages:         []string{"fr", "en"},
	}
	if score := ComputeCompatibilityScore(request, profile); score != 30 {
		t.Fatalf("expected no language points without a required language, got %d", score)
	}
}
