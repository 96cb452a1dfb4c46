package service

import (
	"math"
	"sort"
	"time"
)

// StateSummary aggregates claims for one state.
type StateSummary struct {
	State        string           `json:"state" doc:"State name"`
	TotalClaims  int              `json:"total_claims" doc:"Claims in the state"`
	Approved     int              `json:"approved_claims" doc:"Approved claims"`
	Pending      int              `json:"pending_claims" doc:"Claims still in the pipeline"`
	AreaHectares float64          `json:"total_area_ha" doc:"Summed claim area"`
	ByCategory   map[Category]int `json:"by_category" doc:"Claim count per category"`
}

// StateSummaries groups features by state, sorted by state name. Features
// without a state (typically boundary files) are skipped.
func StateSummaries(features []Feature) []StateSummary {
	byState := map[string]*StateSummary{}
	for _, f := range features {
		if f.State == "" {
			continue
		}
		s, ok := byState[f.State]
		if !ok {
			s = &StateSummary{State: f.State, ByCategory: map[Category]int{}}
			byState[f.State] = s
		}
		s.TotalClaims++
		s.AreaHectares += f.AreaHectares
		s.ByCategory[f.Category]++
		switch {
		case f.Status == StatusApproved:
			s.Approved++
		case f.Status.NotFinalized():
			s.Pending++
		}
	}

	out := make([]StateSummary, 0, len(byState))
	for _, s := range byState {
		s.AreaHectares = round2(s.AreaHectares)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// TribalSummary aggregates claims for one tribal community.
type TribalSummary struct {
	Community    string  `json:"tribal_community" doc:"Tribal community name"`
	TotalClaims  int     `json:"total_claims" doc:"Claims by the community"`
	Approved     int     `json:"approved_claims" doc:"Approved claims"`
	AreaHectares float64 `json:"total_area_ha" doc:"Summed claim area"`
}

// TribalSummaries groups features by tribal community, sorted by name.
// Features without the attribute are skipped.
func TribalSummaries(features []Feature) []TribalSummary {
	byCommunity := map[string]*TribalSummary{}
	for _, f := range features {
		community := f.ExtraString("tribal_community")
		if community == "" {
			continue
		}
		s, ok := byCommunity[community]
		if !ok {
			s = &TribalSummary{Community: community}
			byCommunity[community] = s
		}
		s.TotalClaims++
		s.AreaHectares += f.AreaHectares
		if f.Status == StatusApproved {
			s.Approved++
		}
	}

	out := make([]TribalSummary, 0, len(byCommunity))
	for _, s := range byCommunity {
		s.AreaHectares = round2(s.AreaHectares)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Community < out[j].Community })
	return out
}

// TimelineBucket is one month's worth of submissions.
type TimelineBucket struct {
	Month        string  `json:"month" doc:"Submission month (YYYY-MM)"`
	Submitted    int     `json:"claims_submitted" doc:"Claims submitted in the month"`
	Approved     int     `json:"claims_approved" doc:"Of those, how many are approved today"`
	AreaHectares float64 `json:"total_area_ha" doc:"Summed claim area"`
}

// Timeline groups features by submission month, sorted chronologically.
// Features with no parseable submission_date are skipped.
func Timeline(features []Feature) []TimelineBucket {
	byMonth := map[string]*TimelineBucket{}
	for _, f := range features {
		month := submissionMonth(f.ExtraString("submission_date"))
		if month == "" {
			continue
		}
		b, ok := byMonth[month]
		if !ok {
			b = &TimelineBucket{Month: month}
			byMonth[month] = b
		}
		b.Submitted++
		b.AreaHectares += f.AreaHectares
		if f.Status == StatusApproved {
			b.Approved++
		}
	}

	out := make([]TimelineBucket, 0, len(byMonth))
	for _, b := range byMonth {
		b.AreaHectares = round2(b.AreaHectares)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func submissionMonth(date string) string {
	if date == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "02-01-2006"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01")
		}
	}
	return ""
}

// Performance is the implementation scorecard over one feature set.
type Performance struct {
	TotalClaims       int     `json:"total_claims" doc:"Claims counted"`
	ApprovedClaims    int     `json:"approved_claims" doc:"Approved claims"`
	PendingClaims     int     `json:"pending_claims" doc:"Submitted, under review, field verification, or pending"`
	RejectedClaims    int     `json:"rejected_claims" doc:"Rejected claims"`
	ApprovalRate      float64 `json:"approval_rate" doc:"Approved / total, percent"`
	PendingRate       float64 `json:"pending_rate" doc:"Pending / total, percent"`
	TotalAreaHectares float64 `json:"total_area_ha" doc:"Summed claim area"`
	AverageClaimSize  float64 `json:"average_claim_size_ha" doc:"Mean claim area over claim categories"`
}

// PerformanceMetrics computes the scorecard. The pending bucket is the
// not-finalized status set; rates are 0 for an empty input rather than NaN.
func PerformanceMetrics(features []Feature) Performance {
	var p Performance
	var claimCount int
	var claimArea float64
	for _, f := range features {
		p.TotalClaims++
		p.TotalAreaHectares += f.AreaHectares
		switch {
		case f.Status == StatusApproved:
			p.ApprovedClaims++
		case f.Status == StatusRejected:
			p.RejectedClaims++
		case f.Status.NotFinalized():
			p.PendingClaims++
		}
		if f.Category.IsClaim() {
			claimCount++
			claimArea += f.AreaHectares
		}
	}
	if p.TotalClaims > 0 {
		p.ApprovalRate = round2(float64(p.ApprovedClaims) / float64(p.TotalClaims) * 100)
		p.PendingRate = round2(float64(p.PendingClaims) / float64(p.TotalClaims) * 100)
	}
	if claimCount > 0 {
		p.AverageClaimSize = round2(claimArea / float64(claimCount))
	}
	p.TotalAreaHectares = round2(p.TotalAreaHectares)
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
