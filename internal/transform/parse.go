package transform

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
)

// ParseOp parses the textual operation form used by the CLI and preset
// files:
//
//	crop:X,Y,W,H
//	resize:WxH
//	rotate:DEGREES
//	flip:h|v
//	adjust:brightness=1.2,contrast=0.9,saturation=1.0
//	filter:grayscale|sepia|blur|sharpen|edge
//	stroke:X,Y;X,Y;...@#RRGGBB@WIDTH
func ParseOp(s string) (Op, error) {
	name, args, _ := strings.Cut(s, ":")
	switch name {
	case "crop":
		return parseCrop(args)
	case "resize":
		return parseResize(args)
	case "rotate":
		angle, err := strconv.ParseFloat(args, 64)
		if err != nil {
			return Op{}, fmt.Errorf("rotate: bad angle %q", args)
		}
		return Rotate(angle), nil
	case "flip":
		switch args {
		case "h", "horizontal":
			return FlipH(), nil
		case "v", "vertical":
			return FlipV(), nil
		default:
			return Op{}, fmt.Errorf("flip: bad axis %q (want h or v)", args)
		}
	case "adjust":
		return parseAdjust(args)
	case "filter":
		kind, err := ParseFilter(args)
		if err != nil {
			return Op{}, err
		}
		return Filter(kind), nil
	case "stroke":
		return parseStroke(args)
	default:
		return Op{}, fmt.Errorf("unknown operation %q", name)
	}
}

// ParseOps parses a sequence of operation strings, failing on the
// first malformed entry.
func ParseOps(specs []string) ([]Op, error) {
	ops := make([]Op, 0, len(specs))
	for _, s := range specs {
		op, err := ParseOp(s)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseCrop(args string) (Op, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 4 {
		return Op{}, fmt.Errorf("crop: want X,Y,W,H, got %q", args)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Op{}, fmt.Errorf("crop: bad value %q", p)
		}
		vals[i] = n
	}
	return Crop(image.Rect(vals[0], vals[1], vals[0]+vals[2], vals[1]+vals[3])), nil
}

func parseResize(args string) (Op, error) {
	ws, hs, ok := strings.Cut(args, "x")
	if !ok {
		return Op{}, fmt.Errorf("resize: want WxH, got %q", args)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return Op{}, fmt.Errorf("resize: bad width %q", ws)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return Op{}, fmt.Errorf("resize: bad height %q", hs)
	}
	return Resize(w, h), nil
}

func parseAdjust(args string) (Op, error) {
	op := Adjust(1, 1, 1)
	if args == "" {
		return op, nil
	}
	for _, pair := range strings.Split(args, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return Op{}, fmt.Errorf("adjust: want key=value, got %q", pair)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return Op{}, fmt.Errorf("adjust: bad value %q for %s", val, key)
		}
		switch key {
		case "brightness", "b":
			op.Brightness = f
		case "contrast", "c":
			op.Contrast = f
		case "saturation", "s":
			op.Saturation = f
		default:
			return Op{}, fmt.Errorf("adjust: unknown key %q", key)
		}
	}
	return op, nil
}

func parseStroke(args string) (Op, error) {
	parts := strings.Split(args, "@")
	if len(parts) != 3 {
		return Op{}, fmt.Errorf("stroke: want PATH@COLOR@WIDTH, got %q", args)
	}

	var path []image.Point
	for _, pt := range strings.Split(parts[0], ";") {
		xs, ys, ok := strings.Cut(strings.TrimSpace(pt), ",")
		if !ok {
			return Op{}, fmt.Errorf("stroke: bad point %q", pt)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return Op{}, fmt.Errorf("stroke: bad point %q", pt)
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return Op{}, fmt.Errorf("stroke: bad point %q", pt)
		}
		path = append(path, image.Point{X: x, Y: y})
	}

	c, err := ParseColor(parts[1])
	if err != nil {
		return Op{}, fmt.Errorf("stroke: %v", err)
	}

	width, err := strconv.Atoi(parts[2])
	if err != nil {
		return Op{}, fmt.Errorf("stroke: bad width %q", parts[2])
	}

	return Stroke(path, c, width), nil
}

// ParseColor parses #RRGGBB or #RRGGBBAA hex notation. The alpha
// defaults to opaque.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("bad color %q (want #RRGGBB or #RRGGBBAA)", s)
	}
	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// FormatColor renders c in the #RRGGBB form (or #RRGGBBAA when not
// fully opaque) accepted by ParseColor.
func FormatColor(c color.RGBA) string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
