package rowmodel

import (
	"agentdev/internal/diff"
	"agentdev/internal/sessionindex"
	"agentdev/internal/types"
)

// DiffGroups groups entries by GroupKey in first-seen order.
func DiffGroups(entries []diff.Entry) []Group[diff.Entry] {
	var groups []Group[diff.Entry]
	position := map[string]int{}
	for _, entry := range entries {
		i, ok := position[entry.GroupKey]
		if !ok {
			i = len(groups)
			position[entry.GroupKey] = i
			groups = append(groups, Group[diff.Entry]{Key: entry.GroupKey, Label: entry.GroupLabel})
		}
		groups[i].Items = append(groups[i].Items, entry)
	}
	return groups
}

// FilterDiffGroups groups entries like DiffGroups, then filters each group by
// term. Groups left without matches are kept so Build can tell an empty
// listing from a search that matched nothing.
func FilterDiffGroups(entries []diff.Entry, term string) []Group[diff.Entry] {
	groups := DiffGroups(entries)
	for i := range groups {
		groups[i].Items = diff.FilterEntries(groups[i].Items, term)
	}
	return groups
}

func DiffEntryKey(entry diff.Entry) string {
	return entry.Key
}

// SessionGroups is the single selected group of idx, filtered by term. It
// returns nil only when the group has no sessions at all.
func SessionGroups(idx *sessionindex.Index, groupID, term string) []Group[types.SessionSummary] {
	group, ok := idx.Group(groupID)
	if !ok {
		return nil
	}
	if len(idx.Members(group.ID, "")) == 0 {
		return nil
	}
	members := idx.Members(group.ID, term)
	return []Group[types.SessionSummary]{{Key: group.ID, Label: group.Label, Items: members}}
}

func SessionKey(session types.SessionSummary) string {
	return session.Key()
}
