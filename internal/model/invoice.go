package model

// Invoice groups the performances billed to a single customer.  The order
// of Performances is the order of lines on the printed statement.
type Invoice struct {
	Customer     string        `json:"customer"`
	Performances []Performance `json:"performances"`
}

// Catalog maps play identifiers to plays.  Statement code only reads it.
type Catalog map[string]Play

// Lookup returns the play registered under id.
func (c Catalog) Lookup(id string) (Play, bool) {
	p, ok := c[id]
	return p, ok
}
