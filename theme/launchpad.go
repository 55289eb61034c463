package theme

import "github.com/lucasb-eyer/go-colorful"

// bandHues are the 14 hue bands of the Launchpad velocity palette (indices
// 4-59, four brightness steps each).
var bandHues = [14]float64{0, 25, 55, 85, 115, 130, 150, 170, 190, 210, 235, 265, 300, 330}

var bandLevels = [4]struct{ s, v float64 }{
	{0.45, 1.00}, // pastel
	{1.00, 1.00},
	{1.00, 0.55},
	{1.00, 0.30},
}

var padPalette = buildPadPalette()

func buildPadPalette() (p [128]RGB) {
	p[1] = FromColorful(colorful.Hsv(0, 0, 0.30))
	p[2] = FromColorful(colorful.Hsv(0, 0, 0.65))
	p[3] = FromColorful(colorful.Hsv(0, 0, 1.00))
	for i := 4; i < 60; i++ {
		lv := bandLevels[(i-4)%4]
		p[i] = FromColorful(colorful.Hsv(bandHues[(i-4)/4], lv.s, lv.v))
	}
	// the rest of the palette is a mixed bag; spread it around the wheel
	for i := 60; i < len(p); i++ {
		p[i] = FromColorful(colorful.Hsv(float64(i-60)*360/68, 0.8, 0.85))
	}
	return p
}

// PadRGB approximates what the surface shows for a palette index.
func PadRGB(index uint8) RGB {
	return padPalette[index&0x7F]
}
