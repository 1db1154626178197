// Package metrics turns raw view/subscriber counters into normalized ratios
// and discrete grades. All functions are pure.
package metrics

import "vidscope/internal/models"

// PerformanceRatio relates a video's views to its channel's subscriber
// count, clamped to [0,100]. A channel with no subscribers scores 0.
func PerformanceRatio(views, subscribers int64) float64 {
	if subscribers <= 0 {
		return 0
	}
	ratio := float64(views) / float64(subscribers) * 100
	if ratio > 100 {
		return 100
	}
	return ratio
}

// ContributionRatio relates a video's views to its channel's average
// per-video view count, clamped to [0,100].
func ContributionRatio(views, channelTotalViews, channelVideoCount int64) float64 {
	if channelVideoCount < 1 {
		channelVideoCount = 1
	}
	avg := float64(channelTotalViews) / float64(channelVideoCount)
	if avg <= 0 {
		return 0
	}
	ratio := float64(views) / avg * 100
	if ratio > 100 {
		return 100
	}
	return ratio
}

// PerformanceGrade classifies a performance ratio. Thresholds are checked
// highest first so every branch is reachable.
func PerformanceGrade(ratio float64) models.Grade {
	switch {
	case ratio > 50:
		return models.GradeGood
	case ratio > 10:
		return models.GradeNormal
	case ratio > 5:
		return models.GradeBad
	default:
		return models.GradeWorst
	}
}

// ContributionGradeFor grades a video's contribution to channel growth.
// The clamp in ContributionRatio would make the top bucket unreachable, so
// grading uses the unclamped ratio; the clamped one is for display only.
func ContributionGradeFor(views, channelTotalViews, channelVideoCount int64) models.Grade {
	if channelVideoCount < 1 {
		channelVideoCount = 1
	}
	avg := float64(channelTotalViews) / float64(channelVideoCount)
	if avg <= 0 {
		return ContributionGrade(0)
	}
	return ContributionGrade(float64(views) / avg * 100)
}

// ContributionGrade classifies a contribution ratio, same ordering as
// PerformanceGrade but with the wider thresholds of the growth axis.
func ContributionGrade(ratio float64) models.Grade {
	switch {
	case ratio > 150:
		return models.GradeGood
	case ratio > 50:
		return models.GradeNormal
	case ratio > 25:
		return models.GradeBad
	default:
		return models.GradeWorst
	}
}

// ExposureProbability is the performance ratio re-expressed as the single
// headline percentage shown to end users.
func ExposureProbability(views, subscribers int64) float64 {
	return PerformanceRatio(views, subscribers)
}
