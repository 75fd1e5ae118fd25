package wallet

import "staffready/internal/domain/catalog"

// Resolve returns the required compliance item names for a candidate with the
// given occupation and specialties. Three sources are unioned, in insertion
// order: specialty-specific templates (in the order the specialty codes were
// given), general occupation templates, and the global overlay of items every
// candidate sees. Unknown or inactive occupations contribute nothing; the
// global overlay still applies.
func Resolve(snap catalog.Snapshot, occupationCode string, specialtyCodes []string) []string {
	var names []string
	seen := map[string]bool{}

	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}

	occ, found := snap.OccupationByCode(occupationCode)
	if found && occ.IsActive {
		for _, specialtyCode := range specialtyCodes {
			for _, tpl := range snap.Templates {
				if !tpl.IsActive || tpl.OccupationCode != occupationCode || tpl.SpecialtyCode != specialtyCode {
					continue
				}
				for _, name := range resolveItemNames(snap, tpl.ListItemIDs) {
					add(name)
				}
			}
		}

		for _, tpl := range snap.Templates {
			if !tpl.IsActive || tpl.OccupationCode != occupationCode || tpl.SpecialtyCode != "" {
				continue
			}
			for _, name := range resolveItemNames(snap, tpl.ListItemIDs) {
				add(name)
			}
		}
	}

	for _, item := range snap.Items {
		if item.DisplayToCandidate && item.IsActive {
			add(item.Name)
		}
	}

	return names
}

func resolveItemNames(snap catalog.Snapshot, itemIDs []string) []string {
	var names []string
	for _, id := range itemIDs {
		item, found := snap.ItemByID(id)
		if !found || !item.IsActive {
			continue
		}
		names = append(names, item.Name)
	}
	return names
}
