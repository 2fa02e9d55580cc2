package roster

// Record is one row of the badge roster.
type Record struct {
	Identifier string `json:"identifier"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// FullName joins first and last name with a single space.
func (r Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Blank reports whether every field is empty.
func (r Record) Blank() bool {
	return r.Identifier == "" && r.FirstName == "" && r.LastName == ""
}
