package aggregate

import (
	"sort"

	"hrpulse/domain/dataset"
)

// countFirstSeen tallies a categorical field, preserving first-seen order
func countFirstSeen(view dataset.View, field dataset.Field) []CategoryCount {
	out := make([]CategoryCount, 0)
	pos := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		v := view.Categorical(field, i)
		p, ok := pos[v]
		if !ok {
			p = len(out)
			pos[v] = p
			out = append(out, CategoryCount{Value: v})
		}
		out[p].Count++
	}
	return out
}

// CategoryDistribution counts each distinct value of field (pie charts).
// Slices are in first-seen order.
func CategoryDistribution(view dataset.View, field dataset.Field) Distribution {
	return Distribution{
		Field:  field,
		Total:  view.Len(),
		Slices: countFirstSeen(view, field),
	}
}

// CountByCategory is a frequency table sorted by count descending. Ties keep
// first-seen order, so the result is stable for a given view.
func CountByCategory(view dataset.View, field dataset.Field) []CategoryCount {
	counts := countFirstSeen(view, field)
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// ConditionalCount counts field values among rows matching pred, first-seen order
func ConditionalCount(view dataset.View, pred dataset.Predicate, field dataset.Field) []CategoryCount {
	return countFirstSeen(view.WhereEquals(pred), field)
}

// ConditionalBreakdown groups the rows matching pred by primary then
// secondary. Both level lists are first-seen within the subset; every
// primary row carries a zero-filled count for every secondary level.
func ConditionalBreakdown(view dataset.View, pred dataset.Predicate, primary, secondary dataset.Field) Breakdown {
	subset := view.WhereEquals(pred)
	b := Breakdown{
		Predicate:       pred,
		Primary:         primary,
		Secondary:       secondary,
		Total:           subset.Len(),
		PrimaryLevels:   make([]string, 0),
		SecondaryLevels: make([]string, 0),
		Counts:          make([][]int, 0),
	}

	pPos := make(map[string]int)
	sPos := make(map[string]int)
	type cell struct{ p, s int }
	tally := make(map[cell]int)

	for i := 0; i < subset.Len(); i++ {
		pv := subset.Categorical(primary, i)
		sv := subset.Categorical(secondary, i)
		p, ok := pPos[pv]
		if !ok {
			p = len(b.PrimaryLevels)
			pPos[pv] = p
			b.PrimaryLevels = append(b.PrimaryLevels, pv)
		}
		s, ok := sPos[sv]
		if !ok {
			s = len(b.SecondaryLevels)
			sPos[sv] = s
			b.SecondaryLevels = append(b.SecondaryLevels, sv)
		}
		tally[cell{p, s}]++
	}

	for p := range b.PrimaryLevels {
		row := make([]int, len(b.SecondaryLevels))
		for s := range b.SecondaryLevels {
			row[s] = tally[cell{p, s}]
		}
		b.Counts = append(b.Counts, row)
	}
	return b
}

// GroupedProportion computes, for every group level of the parent table, the
// share of each outcome level within the group. Levels come from the whole
// table sorted lexicographically, so a group or outcome the view lacks still
// appears with proportion 0. Rows of present groups sum to 1.
func GroupedProportion(view dataset.View, group, outcome dataset.Field) ProportionTable {
	pt := ProportionTable{
		GroupField:   group,
		OutcomeField: outcome,
		Groups:       make([]string, 0),
		Outcomes:     make([]string, 0),
		GroupSizes:   make([]int, 0),
		Proportions:  make([][]float64, 0),
	}
	if view.Table() == nil {
		return pt
	}

	pt.Groups = view.Table().Levels(group)
	pt.Outcomes = view.Table().Levels(outcome)
	sort.Strings(pt.Groups)
	sort.Strings(pt.Outcomes)
	if len(pt.Groups) == 0 || len(pt.Outcomes) == 0 {
		return pt
	}

	gPos := make(map[string]int, len(pt.Groups))
	for i, g := range pt.Groups {
		gPos[g] = i
	}
	oPos := make(map[string]int, len(pt.Outcomes))
	for i, o := range pt.Outcomes {
		oPos[o] = i
	}

	counts := make([][]int, len(pt.Groups))
	for i := range counts {
		counts[i] = make([]int, len(pt.Outcomes))
	}
	pt.GroupSizes = make([]int, len(pt.Groups))
	for i := 0; i < view.Len(); i++ {
		g := gPos[view.Categorical(group, i)]
		o := oPos[view.Categorical(outcome, i)]
		counts[g][o]++
		pt.GroupSizes[g]++
	}

	pt.Proportions = make([][]float64, len(pt.Groups))
	for g := range pt.Groups {
		pt.Proportions[g] = make([]float64, len(pt.Outcomes))
		if pt.GroupSizes[g] == 0 {
			continue
		}
		for o := range pt.Outcomes {
			pt.Proportions[g][o] = float64(counts[g][o]) / float64(pt.GroupSizes[g])
		}
	}
	return pt
}
