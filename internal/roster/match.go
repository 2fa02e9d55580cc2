package roster

import "strings"

// Columns holds the header index for each record field, or -1 when no header matched.
type Columns struct {
	Identifier int
	FirstName  int
	LastName   int
}

// MatchColumns finds the roster columns by case-insensitive substring:
// "badge" is the identifier, "first" the first name and "last" the last name.
// The first matching header wins.
func MatchColumns(header []string) Columns {
	cols := Columns{Identifier: -1, FirstName: -1, LastName: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if cols.Identifier < 0 && strings.Contains(h, "badge") {
			cols.Identifier = i
		}
		if cols.FirstName < 0 && strings.Contains(h, "first") {
			cols.FirstName = i
		}
		if cols.LastName < 0 && strings.Contains(h, "last") {
			cols.LastName = i
		}
	}
	return cols
}
