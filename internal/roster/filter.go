package roster

import "strings"

type FilterOptions struct {
	Identifiers []string // exact identifier matches
	FreeWords   string   // every word must appear in the name or identifier
	SkipBlank   bool
}

// Filter keeps the records matching all the set options, preserving input order.
func Filter(records []Record, opt FilterOptions) []Record {
	var ids map[string]struct{}
	if len(opt.Identifiers) > 0 {
		ids = make(map[string]struct{}, len(opt.Identifiers))
		for _, id := range opt.Identifiers {
			ids[strings.TrimSpace(id)] = struct{}{}
		}
	}
	words := strings.Fields(strings.ToLower(opt.FreeWords))

	var out []Record
	for _, r := range records {
		if opt.SkipBlank && r.Blank() {
			continue
		}
		if ids != nil {
			if _, ok := ids[r.Identifier]; !ok {
				continue
			}
		}
		if len(words) > 0 {
			hay := strings.ToLower(r.FullName() + " " + r.Identifier)
			ok := true
			for _, w := range words {
				if !strings.Contains(hay, w) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
