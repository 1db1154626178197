package metrics

import (
	"testing"

	"vidscope/internal/models"
)

func TestPerformanceRatio(t *testing.T) {
	tests := []struct {
		name        string
		views       int64
		subscribers int64
		expected    float64
	}{
		{"No subscribers", 5000, 0, 0},
		{"Negative subscribers treated as zero", 5000, -1, 0},
		{"Half of subscribers", 500, 1000, 50},
		{"Equal views and subscribers", 1000, 1000, 100},
		{"Clamped above 100", 50000, 1000, 100},
		{"No views", 0, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerformanceRatio(tt.views, tt.subscribers)
			if got != tt.expected {
				t.Errorf("PerformanceRatio(%d, %d) = %v, want %v", tt.views, tt.subscribers, got, tt.expected)
			}
			if got < 0 || got > 100 {
				t.Errorf("PerformanceRatio(%d, %d) = %v, outside [0,100]", tt.views, tt.subscribers, got)
			}
		})
	}
}

func TestContributionRatio(t *testing.T) {
	tests := []struct {
		name       string
		views      int64
		totalViews int64
		videoCount int64
		expected   float64
	}{
		{"Average views match", 100, 10000, 100, 100},
		{"Half of average", 50, 10000, 100, 50},
		{"Clamped above 100", 1000, 10000, 100, 100},
		{"Zero video count uses one", 50, 100, 0, 50},
		{"Channel with no views", 50, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContributionRatio(tt.views, tt.totalViews, tt.videoCount)
			if got != tt.expected {
				t.Errorf("ContributionRatio(%d, %d, %d) = %v, want %v", tt.views, tt.totalViews, tt.videoCount, got, tt.expected)
			}
			if got < 0 || got > 100 {
				t.Errorf("ContributionRatio(%d, %d, %d) = %v, outside [0,100]", tt.views, tt.totalViews, tt.videoCount, got)
			}
		})
	}
}

// Every performance bucket must be reachable: 0, 6, 11 and 51 hit the four
// branches in order from Worst up to Good.
func TestPerformanceGradeReachability(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected models.Grade
	}{
		{0, models.GradeWorst},
		{5, models.GradeWorst},
		{6, models.GradeBad},
		{10, models.GradeBad},
		{11, models.GradeNormal},
		{50, models.GradeNormal},
		{51, models.GradeGood},
		{100, models.GradeGood},
	}

	for _, tt := range tests {
		if got := PerformanceGrade(tt.ratio); got != tt.expected {
			t.Errorf("PerformanceGrade(%v) = %s, want %s", tt.ratio, got, tt.expected)
		}
	}
}

func TestContributionGrade(t *testing.T) {
	tests := []struct {
		ratio    float64
		expected models.Grade
	}{
		{0, models.GradeWorst},
		{25, models.GradeWorst},
		{26, models.GradeBad},
		{50, models.GradeBad},
		{51, models.GradeNormal},
		{150, models.GradeNormal},
		{151, models.GradeGood},
	}

	for _, tt := range tests {
		if got := ContributionGrade(tt.ratio); got != tt.expected {
			t.Errorf("ContributionGrade(%v) = %s, want %s", tt.ratio, got, tt.expected)
		}
	}
}

func TestContributionGradeFor(t *testing.T) {
	// 1000 views against an average of 500 is a 200% ratio: the top bucket
	// must be reachable even though the display ratio clamps at 100.
	if got := ContributionGradeFor(1000, 5000, 10); got != models.GradeGood {
		t.Errorf("ContributionGradeFor(1000, 5000, 10) = %s, want %s", got, models.GradeGood)
	}
	if got := ContributionGradeFor(0, 5000, 10); got != models.GradeWorst {
		t.Errorf("ContributionGradeFor(0, 5000, 10) = %s, want %s", got, models.GradeWorst)
	}
	if got := ContributionGradeFor(100, 0, 0); got != models.GradeWorst {
		t.Errorf("ContributionGradeFor(100, 0, 0) = %s, want %s", got, models.GradeWorst)
	}
}

func TestExposureProbability(t *testing.T) {
	if got := ExposureProbability(500, 1000); got != 50 {
		t.Errorf("ExposureProbability(500, 1000) = %v, want 50", got)
	}
	if got := ExposureProbability(123, 0); got != 0 {
		t.Errorf("ExposureProbability with zero subscribers = %v, want 0", got)
	}
}
