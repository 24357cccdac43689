package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/gninraw7/psms/internal/report"
)

// ratio guards divisions throughout the dashboard: nil instead of a
// divide-by-zero, never coerced to 0 or infinity.
func ratio(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := numerator / denominator
	return &v
}

func expectedAmount(p Project) float64 {
	return p.QuotedAmount * p.WinProbability / 100
}

type riskFlags struct {
	overdue bool
	lowProb bool
	stale   bool
}

func assessRisk(p Project, now time.Time) riskFlags {
	if !IsActive(p.StageCode) {
		return riskFlags{}
	}
	return riskFlags{
		overdue: p.ContractEndDate != nil && p.ContractEndDate.Before(now),
		lowProb: p.WinProbability < lowProbabilityMax,
		stale:   !p.UpdatedAt.IsZero() && now.Sub(p.UpdatedAt) >= staleAfter,
	}
}

func (f riskFlags) any() bool { return f.overdue || f.lowProb || f.stale }

// deriveKPI computes the headline block from the project list and the
// current/prior actual series plus the selected plan total.
func deriveKPI(projects []Project, order, profit, prevOrder, plan report.MonthlySeries, now time.Time) KPI {
	kpi := KPI{
		OrderTotal:  order.SumAll(),
		ProfitTotal: profit.SumAll(),
		PlanTotal:   plan.SumAll(),
	}

	prevTotal := prevOrder.SumAll()
	if prevTotal != 0 {
		kpi.OrderYoYRate = ratio(kpi.OrderTotal-prevTotal, prevTotal)
	}
	kpi.AchievementRate = ratio(kpi.OrderTotal, kpi.PlanTotal)

	var probSum float64
	for _, p := range projects {
		kpi.TotalProjects++
		switch {
		case IsLost(p.StageCode):
			kpi.LostProjects++
		case IsClosed(p.StageCode):
			kpi.ClosedProjects++
		default:
			kpi.ActiveProjects++
			kpi.ActivePipelineAmount += p.QuotedAmount
			kpi.ExpectedAmount += expectedAmount(p)
			probSum += p.WinProbability
		}

		flags := assessRisk(p, now)
		if flags.overdue {
			kpi.OverdueProjects++
		}
		if flags.stale {
			kpi.StaleProjects++
		}
		if flags.lowProb {
			kpi.LowProbabilityProjects++
		}
	}
	if kpi.ActiveProjects > 0 {
		kpi.AvgWinProbability = probSum / float64(kpi.ActiveProjects)
	}
	return kpi
}

func deriveMonthlyTrend(order, prevOrder, plan report.MonthlySeries) []MonthlyTrendPoint {
	points := make([]MonthlyTrendPoint, 0, 12)
	for m := 1; m <= 12; m++ {
		points = append(points, MonthlyTrendPoint{
			Month:         m,
			ActualOrder:   order.Month(m),
			PreviousOrder: prevOrder.Month(m),
			PlanOrder:     plan.Month(m),
		})
	}
	return points
}

func deriveQuarterComparison(order, plan report.MonthlySeries) []QuarterComparison {
	rows := make([]QuarterComparison, 0, 4)
	for q := 1; q <= 4; q++ {
		actual := order.SumQuarter(q)
		planned := plan.SumQuarter(q)
		rows = append(rows, QuarterComparison{
			Quarter:         fmt.Sprintf("Q%d", q),
			ActualOrder:     actual,
			PlanOrder:       planned,
			AchievementRate: ratio(actual, planned),
		})
	}
	return rows
}

// deriveStageFunnel groups every project by stage, ordered by the fixed stage
// sequence with unknown codes trailing.
func deriveStageFunnel(projects []Project) []StageFunnelEntry {
	type bucket struct {
		entry   StageFunnelEntry
		probSum float64
	}
	buckets := make(map[string]*bucket)
	for _, p := range projects {
		b, ok := buckets[p.StageCode]
		if !ok {
			b = &bucket{entry: StageFunnelEntry{StageCode: p.StageCode, StageName: p.StageName}}
			buckets[p.StageCode] = b
		}
		if b.entry.StageName == "" {
			b.entry.StageName = p.StageName
		}
		b.entry.ProjectCount++
		b.entry.TotalAmount += p.QuotedAmount
		b.probSum += p.WinProbability
	}

	rank := make(map[string]int, len(stageSequence))
	for i, code := range stageSequence {
		rank[code] = i
	}
	codes := make([]string, 0, len(buckets))
	for code := range buckets {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		ri, iKnown := rank[codes[i]]
		rj, jKnown := rank[codes[j]]
		if iKnown != jKnown {
			return iKnown
		}
		if !iKnown {
			return codes[i] < codes[j]
		}
		return ri < rj
	})

	entries := make([]StageFunnelEntry, 0, len(codes))
	for _, code := range codes {
		b := buckets[code]
		if b.entry.ProjectCount > 0 {
			b.entry.AvgWinProbability = b.probSum / float64(b.entry.ProjectCount)
		}
		entries = append(entries, b.entry)
	}
	return entries
}

// probabilityBandDefs are checked in order; first match wins.
var probabilityBandDefs = []struct {
	label string
	min   float64
}{
	{"90-100%", 90},
	{"70-89%", 70},
	{"50-69%", 50},
	{"30-49%", 30},
	{"0-29%", 0},
}

// deriveProbabilityBands histograms active projects across the fixed bands.
// Every band is present even when empty.
func deriveProbabilityBands(projects []Project) []ProbabilityBand {
	counts := make([]int, len(probabilityBandDefs))
	for _, p := range projects {
		if !IsActive(p.StageCode) {
			continue
		}
		for i, def := range probabilityBandDefs {
			if p.WinProbability >= def.min {
				counts[i]++
				break
			}
		}
	}
	bands := make([]ProbabilityBand, 0, len(probabilityBandDefs))
	for i, def := range probabilityBandDefs {
		bands = append(bands, ProbabilityBand{Band: def.label, ProjectCount: counts[i]})
	}
	return bands
}

type topBucket struct {
	name     string
	count    int
	expected float64
	quoted   float64
}

// groupActive buckets active projects by a label, with the shared
// snapshot/live fallback supplying "-" for missing names.
func groupActive(projects []Project, label func(Project) string) []topBucket {
	buckets := make(map[string]*topBucket)
	order := make([]string, 0)
	for _, p := range projects {
		if !IsActive(p.StageCode) {
			continue
		}
		name := report.ResolveLabel(label(p), "")
		b, ok := buckets[name]
		if !ok {
			b = &topBucket{name: name}
			buckets[name] = b
			order = append(order, name)
		}
		b.count++
		b.expected += expectedAmount(p)
		b.quoted += p.QuotedAmount
	}
	rows := make([]topBucket, 0, len(order))
	for _, name := range order {
		rows = append(rows, *buckets[name])
	}
	return rows
}

func deriveManagerTop(projects []Project) []ManagerTopEntry {
	rows := groupActive(projects, func(p Project) string { return p.ManagerName })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].expected > rows[j].expected })
	if len(rows) > managerTopLimit {
		rows = rows[:managerTopLimit]
	}
	entries := make([]ManagerTopEntry, 0, len(rows))
	for _, b := range rows {
		entries = append(entries, ManagerTopEntry{ManagerName: b.name, ProjectCount: b.count, ExpectedAmount: b.expected})
	}
	return entries
}

func deriveCustomerTop(projects []Project) []CustomerTopEntry {
	rows := groupActive(projects, func(p Project) string { return p.CustomerName })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].expected > rows[j].expected })
	if len(rows) > customerTopLimit {
		rows = rows[:customerTopLimit]
	}
	entries := make([]CustomerTopEntry, 0, len(rows))
	for _, b := range rows {
		entries = append(entries, CustomerTopEntry{CustomerName: b.name, ProjectCount: b.count, ExpectedAmount: b.expected})
	}
	return entries
}

func deriveFieldMix(projects []Project) []FieldMixEntry {
	rows := groupActive(projects, func(p Project) string { return p.FieldName })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].quoted > rows[j].quoted })
	if len(rows) > fieldMixLimit {
		rows = rows[:fieldMixLimit]
	}
	entries := make([]FieldMixEntry, 0, len(rows))
	for _, b := range rows {
		entries = append(entries, FieldMixEntry{FieldName: b.name, ProjectCount: b.count, TotalAmount: b.quoted})
	}
	return entries
}

// deriveRiskProjects lists flagged active projects: overdue first, then low
// probability, then longest without an update.
func deriveRiskProjects(projects []Project, now time.Time) []RiskProject {
	type scored struct {
		project Project
		flags   riskFlags
	}
	var flagged []scored
	for _, p := range projects {
		flags := assessRisk(p, now)
		if flags.any() {
			flagged = append(flagged, scored{project: p, flags: flags})
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		a, b := flagged[i], flagged[j]
		if a.flags.overdue != b.flags.overdue {
			return a.flags.overdue
		}
		if a.flags.lowProb != b.flags.lowProb {
			return a.flags.lowProb
		}
		return a.project.UpdatedAt.Before(b.project.UpdatedAt)
	})
	if len(flagged) > riskListLimit {
		flagged = flagged[:riskListLimit]
	}

	rows := make([]RiskProject, 0, len(flagged))
	for _, s := range flagged {
		rows = append(rows, RiskProject{
			PipelineID:       s.project.PipelineID,
			ProjectName:      s.project.ProjectName,
			StageName:        report.ResolveLabel(s.project.StageName, ""),
			QuotedAmount:     s.project.QuotedAmount,
			WinProbability:   s.project.WinProbability,
			IsOverdue:        s.flags.overdue,
			IsLowProbability: s.flags.lowProb,
			IsStale:          s.flags.stale,
		})
	}
	return rows
}
