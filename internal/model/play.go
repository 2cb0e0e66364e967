package model

// Genre is the closed set of play classifications that drive pricing and
// volume credits.  The raw type tag from the catalog is resolved into a
// Genre once, when the Play is constructed, so the rule engine never has
// to match strings.
type Genre int

const (
	// genreUnresolved is the zero value.  It marks a Play built as a struct
	// literal instead of through NewPlay; Play.Genre resolves it lazily.
	genreUnresolved Genre = iota
	GenreTragedy
	GenreComedy
	GenreHistory
	GenrePastoral
	// GenreUnknown covers any tag outside the registered set.  Amount
	// calculation rejects it; credit calculation falls back to the base rule.
	GenreUnknown
)

// Type tags as they appear in the play catalog.  Matching is exact and
// case-sensitive.
const (
	TypeTragedy  = "tragedy"
	TypeComedy   = "comedy"
	TypeHistory  = "history"
	TypePastoral = "pastoral"
)

// ParseGenre maps a catalog type tag onto a Genre.  Unregistered tags
// (including different casing such as "Comedy") yield GenreUnknown.
func ParseGenre(tag string) Genre {
	switch tag {
	case TypeTragedy:
		return GenreTragedy
	case TypeComedy:
		return GenreComedy
	case TypeHistory:
		return GenreHistory
	case TypePastoral:
		return GenrePastoral
	default:
		return GenreUnknown
	}
}

// String returns the catalog tag for a registered genre and "unknown"
// otherwise.
func (g Genre) String() string {
	switch g {
	case GenreTragedy:
		return TypeTragedy
	case GenreComedy:
		return TypeComedy
	case GenreHistory:
		return TypeHistory
	case GenrePastoral:
		return TypePastoral
	default:
		return "unknown"
	}
}

// Play is a catalog entry: the display name of a play and its type tag.
//
// Fields:
//  Name – display name printed on statement lines.
//  Type – raw catalog tag (e.g. "tragedy"); kept verbatim so an
//         unregistered tag can be reported exactly.
type Play struct {
	Name  string `json:"name"` // plays.name
	Type  string `json:"type"` // plays.type
	genre Genre
	tag   string // Type value genre was resolved from
}

// NewPlay builds a Play and resolves its genre from the type tag.
func NewPlay(name, typ string) Play {
	return Play{Name: name, Type: typ, genre: ParseGenre(typ), tag: typ}
}

// Genre returns the resolved genre of the play.  A Type reassigned after
// construction is re-resolved.
func (p Play) Genre() Genre {
	if p.genre == genreUnresolved || p.tag != p.Type {
		return ParseGenre(p.Type)
	}
	return p.genre
}
