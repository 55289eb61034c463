package theory

// PageWidth is the number of grid columns; each column transposes by one semitone.
const PageWidth = 8

// Page is every chord the grid can reach, computed once. Lookups never allocate
// and nothing outside this file can write to it.
type Page struct {
	root   int
	chords [NumScales][PageWidth][NumDegrees][NumVoices]int
}

// BuildPage fills the chord table for the given root pitch.
func BuildPage(root int) *Page {
	p := &Page{root: root}
	for s := 0; s < NumScales; s++ {
		for d := 0; d < NumDegrees; d++ {
			notes := NotesFor(s, d)
			for x := 0; x < PageWidth; x++ {
				for v, n := range notes {
					p.chords[s][x][d][v] = root + n + x
				}
			}
		}
	}
	return p
}

// Root is the pitch scale degree 1 sits on in column 0.
func (p *Page) Root() int {
	return p.root
}

// Note returns one voice of the chord at (scale, column, degree).
func (p *Page) Note(scale, x, degree, voice int) int {
	return p.chords[scale][x][degree][voice]
}

// Chord returns a copy of all voices at (scale, column, degree).
func (p *Page) Chord(scale, x, degree int) [NumVoices]int {
	return p.chords[scale][x][degree]
}

// Equal reports whether two pages hold the same table.
func (p *Page) Equal(o *Page) bool {
	return p.root == o.root && p.chords == o.chords
}
