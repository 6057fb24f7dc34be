package fixture

import "github.com/costa-amore/JiraUtil-sub000/internal/model"

// BuildReport arranges assertion outcomes into the failure hierarchy.
//
// Every failing issue appears exactly once. A failing issue nests under
// its parent whenever the parent is part of the snapshot, whatever the
// parent's own result; parents that did not fail are kept as context
// nodes, recursively up to the nearest epic or unresolvable ancestor.
// Passing and skipped issues with no failing descendant are left out.
//
// Roots come in three groups: epics, then orphans (issues whose parent is
// missing from the snapshot), then anything left over, which only happens
// for parent cycles. Roots within a group and children of every node are
// ordered by ascending rank, ties keeping input order.
func BuildReport(outcomes []model.AssertionOutcome) []*model.ReportNode {
	ordered := sortedByRank(outcomes, outcomeRank)

	byKey := make(map[string]model.AssertionOutcome, len(ordered))
	for _, o := range ordered {
		if _, dup := byKey[o.Key]; !dup {
			byKey[o.Key] = o
		}
	}

	included := make(map[string]bool)
	for _, o := range ordered {
		if o.Result != model.ResultFail {
			continue
		}
		for current := byKey[o.Key]; !included[current.Key]; {
			included[current.Key] = true
			parentKey, ok := resolveParent(byKey, current)
			if !ok {
				break
			}
			current = byKey[parentKey]
		}
	}

	children := make(map[string][]model.AssertionOutcome)
	var epics, orphans []model.AssertionOutcome
	seen := make(map[string]bool, len(included))
	for _, o := range ordered {
		if !included[o.Key] || seen[o.Key] {
			continue
		}
		seen[o.Key] = true

		if parentKey, ok := resolveParent(byKey, o); ok {
			children[parentKey] = append(children[parentKey], o)
			continue
		}
		if model.KindOf(o.IssueType) == model.KindEpic {
			epics = append(epics, o)
		} else {
			orphans = append(orphans, o)
		}
	}

	placed := make(map[string]bool, len(included))
	var build func(o model.AssertionOutcome) *model.ReportNode
	build = func(o model.AssertionOutcome) *model.ReportNode {
		placed[o.Key] = true
		node := &model.ReportNode{
			Outcome: o,
			Context: o.Result != model.ResultFail,
		}
		for _, child := range children[o.Key] {
			if placed[child.Key] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	var forest []*model.ReportNode
	for _, group := range [][]model.AssertionOutcome{epics, orphans, ordered} {
		for _, o := range group {
			if !included[o.Key] || placed[o.Key] {
				continue
			}
			forest = append(forest, build(o))
		}
	}
	return forest
}

// resolveParent returns the key of the outcome's parent when that parent
// is part of the snapshot. Epics are always roots.
func resolveParent(
	byKey map[string]model.AssertionOutcome,
	o model.AssertionOutcome,
) (string, bool) {
	if model.KindOf(o.IssueType) == model.KindEpic {
		return "", false
	}
	if o.ParentKey == "" || o.ParentKey == o.Key {
		return "", false
	}
	if _, ok := byKey[o.ParentKey]; !ok {
		return "", false
	}
	return o.ParentKey, true
}
