package model

// Performance is one line item of an invoice: a staged play and the number
// of seats sold for it.
//
// Fields:
//  PlayID   – key into the play catalog.
//  Audience – number of attendees; never negative.
type Performance struct {
	PlayID   string `json:"playID"`
	Audience int    `json:"audience"`
}
