package pixel

// Gray converts p to an 8-bit luma value using the fixed-point BT.601
// weights (0.299 R + 0.587 G + 0.114 B, rounded).
func Gray(p Pixel) uint8 {
	y := (uint32(p.R())*4899 + uint32(p.G())*9617 + uint32(p.B())*1868 + 8192) >> 14
	if y > 255 {
		y = 255
	}
	return uint8(y)
}

// HSV is an 8-bit hue/saturation/value triple. Hue is halved to fit a byte
// and lies in [0, 180); saturation and value lie in [0, 255].
type HSV struct {
	H uint8
	S uint8
	V uint8
}

// ToHSV converts p to the 8-bit HSV representation.
func ToHSV(p Pixel) HSV {
	r, g, b := int(p.R()), int(p.G()), int(p.B())
	v := max(r, g, b)
	diff := v - min(r, g, b)

	var s int
	if v > 0 {
		s = (255*diff + v/2) / v
	}

	var h float64
	if diff > 0 {
		switch v {
		case r:
			h = 60 * float64(g-b) / float64(diff)
		case g:
			h = 120 + 60*float64(b-r)/float64(diff)
		default:
			h = 240 + 60*float64(r-g)/float64(diff)
		}
		if h < 0 {
			h += 360
		}
	}
	hue := int(h/2 + 0.5)
	if hue >= 180 {
		hue -= 180
	}
	return HSV{H: uint8(hue), S: uint8(s), V: uint8(v)}
}
