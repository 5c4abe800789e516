package transform

import "image"

// Rec. 601 luma weights, shared by grayscale, edge detection, and the
// saturation adjustment.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// applyAdjust applies brightness, contrast, and saturation enhancement
// factors. Each factor treats 1.0 as identity: brightness multiplies
// the channels, contrast pivots around 128, and saturation lerps
// between the pixel's luma and its color. Alpha passes through.
func applyAdjust(src *image.RGBA, op Op) (*image.RGBA, error) {
	if op.Brightness < 0 || op.Contrast < 0 || op.Saturation < 0 {
		return nil, opErrorf(KindAdjust,
			"negative factor b=%g c=%g s=%g", op.Brightness, op.Contrast, op.Saturation)
	}

	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	for i := 0; i < len(src.Pix); i += 4 {
		r := float64(src.Pix[i])
		g := float64(src.Pix[i+1])
		b := float64(src.Pix[i+2])

		if op.Brightness != 1 {
			r *= op.Brightness
			g *= op.Brightness
			b *= op.Brightness
		}

		if op.Contrast != 1 {
			r = (r-128)*op.Contrast + 128
			g = (g-128)*op.Contrast + 128
			b = (b-128)*op.Contrast + 128
		}

		if op.Saturation != 1 {
			gray := lumaR*r + lumaG*g + lumaB*b
			r = gray + (r-gray)*op.Saturation
			g = gray + (g-gray)*op.Saturation
			b = gray + (b-gray)*op.Saturation
		}

		dst.Pix[i] = clamp8(r)
		dst.Pix[i+1] = clamp8(g)
		dst.Pix[i+2] = clamp8(b)
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst, nil
}

// applyFilter dispatches to the named pixel filter.
func applyFilter(src *image.RGBA, op Op) (*image.RGBA, error) {
	switch op.Filter {
	case FilterGrayscale:
		return filterGrayscale(src), nil
	case FilterSepia:
		return filterSepia(src), nil
	case FilterBlur:
		return filterBlur(src), nil
	case FilterSharpen:
		return convolve(src, sharpenKernel, false), nil
	case FilterEdgeDetect:
		return convolve(src, edgeKernel, true), nil
	default:
		return nil, opErrorf(KindFilter, "unknown filter kind %d", int(op.Filter))
	}
}

func filterGrayscale(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	for i := 0; i < len(src.Pix); i += 4 {
		gray := clamp8(lumaR*float64(src.Pix[i]) + lumaG*float64(src.Pix[i+1]) + lumaB*float64(src.Pix[i+2]))
		dst.Pix[i] = gray
		dst.Pix[i+1] = gray
		dst.Pix[i+2] = gray
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}

// filterSepia applies the classic sepia tone matrix.
func filterSepia(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	for i := 0; i < len(src.Pix); i += 4 {
		r := float64(src.Pix[i])
		g := float64(src.Pix[i+1])
		b := float64(src.Pix[i+2])
		dst.Pix[i] = clamp8(0.393*r + 0.769*g + 0.189*b)
		dst.Pix[i+1] = clamp8(0.349*r + 0.686*g + 0.168*b)
		dst.Pix[i+2] = clamp8(0.272*r + 0.534*g + 0.131*b)
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}

// filterBlur averages each pixel with its in-bounds 3x3 neighborhood.
func filterBlur(src *image.RGBA) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB, count int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					s := src.PixOffset(src.Rect.Min.X+nx, src.Rect.Min.Y+ny)
					sumR += int(src.Pix[s])
					sumG += int(src.Pix[s+1])
					sumB += int(src.Pix[s+2])
					count++
				}
			}
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			d := dst.PixOffset(x, y)
			dst.Pix[d] = uint8(sumR / count)
			dst.Pix[d+1] = uint8(sumG / count)
			dst.Pix[d+2] = uint8(sumB / count)
			dst.Pix[d+3] = src.Pix[s+3]
		}
	}
	return dst
}

// Laplacian sharpen kernel.
var sharpenKernel = [3][3]int{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// 8-neighbor edge detection kernel.
var edgeKernel = [3][3]int{
	{-1, -1, -1},
	{-1, 8, -1},
	{-1, -1, -1},
}

// convolve applies a 3x3 kernel; out-of-bounds neighbors contribute
// nothing. When toGray is set the weighted channel sums collapse to a
// single gray level, which is how the edge filter renders.
func convolve(src *image.RGBA, kernel [3][3]int, toGray bool) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB int
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					nx, ny := x+kx, y+ky
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					weight := kernel[ky+1][kx+1]
					s := src.PixOffset(src.Rect.Min.X+nx, src.Rect.Min.Y+ny)
					sumR += int(src.Pix[s]) * weight
					sumG += int(src.Pix[s+1]) * weight
					sumB += int(src.Pix[s+2]) * weight
				}
			}
			s := src.PixOffset(src.Rect.Min.X+x, src.Rect.Min.Y+y)
			d := dst.PixOffset(x, y)
			if toGray {
				gray := clamp8(float64(sumR+sumG+sumB) / 3)
				dst.Pix[d] = gray
				dst.Pix[d+1] = gray
				dst.Pix[d+2] = gray
			} else {
				dst.Pix[d] = clamp8(float64(sumR))
				dst.Pix[d+1] = clamp8(float64(sumG))
				dst.Pix[d+2] = clamp8(float64(sumB))
			}
			dst.Pix[d+3] = src.Pix[s+3]
		}
	}
	return dst
}
