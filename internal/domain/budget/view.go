package budget

import (
	"sort"
	"time"

	"github.com/kailas-cloud/opsconsole/internal/domain/model"
)

// View is everything a status badge and progress bar need for one scope.
type View struct {
	ScopeType            ScopeType
	ScopeID              int64
	Month                string
	Enabled              bool
	Status               Status
	HardExceeded         bool
	SoftExceeded         bool
	UsedUSD              float64
	PrimaryLimitUSD      *float64
	PrimaryLimitKind     LimitKind
	UsagePercent         *float64
	UsedDisplay          string
	PrimaryLimitDisplay  string
	HardLimitDisplay     string
	SoftLimitDisplay     string
	RemainingHardDisplay string
	RemainingSoftDisplay string
	RequestCount         int64
	TotalTokens          int64
	LastUpdatedAt        string
	Models               []ModelView
}

// ModelView is one row of the per-model spend breakdown.
type ModelView struct {
	Model        string
	UsedUSD      float64
	UsedDisplay  string
	RequestCount int64
	TotalTokens  int64
}

// Evaluate derives the display record for a snapshot. Exceedance trusts the
// snapshot's remaining amounts; percent and amounts use limit and used.
func Evaluate(enabled bool, s *Snapshot, now time.Time) View {
	limit, kind := PrimaryLimit(s.Limits())
	used := s.UsedUSD

	return View{
		ScopeType:            s.ScopeType,
		ScopeID:              s.ScopeID,
		Month:                FormatUsageMonthAt(s.Month, now),
		Enabled:              enabled,
		Status:               DeriveStatus(enabled, s),
		HardExceeded:         IsHardExceeded(enabled, s),
		SoftExceeded:         IsSoftExceeded(enabled, s),
		UsedUSD:              used,
		PrimaryLimitUSD:      limit,
		PrimaryLimitKind:     kind,
		UsagePercent:         CalculateUsagePercent(&used, limit),
		UsedDisplay:          FormatUSDAmount(&used),
		PrimaryLimitDisplay:  FormatUSDAmount(limit),
		HardLimitDisplay:     FormatUSDAmount(s.HardLimitUSD),
		SoftLimitDisplay:     FormatUSDAmount(s.SoftLimitUSD),
		RemainingHardDisplay: FormatUSDAmount(s.RemainingHardUSD),
		RemainingSoftDisplay: FormatUSDAmount(s.RemainingSoftUSD),
		RequestCount:         s.RequestCount,
		TotalTokens:          s.TotalTokens,
		LastUpdatedAt:        s.LastUpdatedAt,
		Models:               aggregateModels(s.Models),
	}
}

// aggregateModels merges rows by normalised model name, highest spend first.
func aggregateModels(rows []ModelUsage) []ModelView {
	if len(rows) == 0 {
		return nil
	}

	byName := make(map[string]*ModelView, len(rows))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		name := model.Normalize(r.Model)
		mv, ok := byName[name]
		if !ok {
			mv = &ModelView{Model: name}
			byName[name] = mv
			order = append(order, name)
		}
		if isFinite(r.UsedUSD) {
			mv.UsedUSD += r.UsedUSD
		}
		mv.RequestCount += r.RequestCount
		mv.TotalTokens += r.TotalTokens
	}

	out := make([]ModelView, 0, len(order))
	for _, name := range order {
		mv := byName[name]
		used := mv.UsedUSD
		mv.UsedDisplay = FormatUSDAmount(&used)
		out = append(out, *mv)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UsedUSD != out[j].UsedUSD {
			return out[i].UsedUSD > out[j].UsedUSD
		}
		return out[i].Model < out[j].Model
	})
	return out
}
