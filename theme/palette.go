package theme

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

type RGB [3]uint8

// Colorful converts to a go-colorful color for blending.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

// FromColorful clamps and converts back.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is a dusk gradient from deep violet to warm yellow, used
// when no .gpl palette is configured.
func DefaultPalette() *Palette {
	stops := []colorful.Color{
		colorful.Hsv(265, 0.85, 0.25),
		colorful.Hsv(285, 0.70, 0.45),
		colorful.Hsv(310, 0.60, 0.75),
		colorful.Hsv(345, 0.55, 0.90),
		colorful.Hsv(25, 0.75, 0.95),
		colorful.Hsv(50, 0.80, 1.00),
	}
	p := &Palette{Name: "dusk"}
	for _, c := range stops {
		p.Colors = append(p.Colors, FromColorful(c))
	}
	return p
}

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open palette")
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// first 3 fields are R G B
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			r, err1 := strconv.Atoi(fields[0])
			g, err2 := strconv.Atoi(fields[1])
			b, err3 := strconv.Atoi(fields[2])
			if err1 == nil && err2 == nil && err3 == nil {
				p.Colors = append(p.Colors, RGB{uint8(r), uint8(g), uint8(b)})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read palette %s", path)
	}

	if len(p.Colors) < 2 {
		return nil, errors.Errorf("palette %s needs at least two colors", path)
	}

	return p, nil
}

// Load reads a .gpl palette, or returns DefaultPalette for an empty path.
func Load(path string) (*Palette, error) {
	if path == "" {
		return DefaultPalette(), nil
	}
	return LoadGPL(path)
}

// Lookup returns the color at a normalized position 0-1, blended in Lab space
// between the two nearest entries.
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i].Colorful()
	c1 := p.Colors[i+1].Colorful()
	return FromColorful(c0.BlendLab(c1, frac))
}
