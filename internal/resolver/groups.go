package resolver

// GroupsForThreatTitle resolves the groups owning a threat by title.
// Exact-title matches win outright: when any exist, partial matches are
// never consulted, so the two tiers cannot mix.
func (e *Engine) GroupsForThreatTitle(title string) ([]string, error) {
	exact, err := e.store.GroupNamesForThreatTitle(title, true)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return exact, nil
	}
	return e.store.GroupNamesForThreatTitle(title, false)
}

// PrimaryGroupForThreatTitle picks the single representative group: the
// first returned from the winning tier, or "" when the title resolves to
// no group at all.
func (e *Engine) PrimaryGroupForThreatTitle(title string) (string, error) {
	groups, err := e.GroupsForThreatTitle(title)
	if err != nil {
		return "", err
	}
	return firstOf(groups), nil
}
