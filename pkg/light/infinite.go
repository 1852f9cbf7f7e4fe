package light

import (
	"math"
	"sort"

	"github.com/anthropics/go-tracer-core/pkg/core"
	"github.com/anthropics/go-tracer-core/pkg/texture"
)

// Uniform is an infinite light with constant radiance in every
// direction, the simplest of spec §4.I's environment lights.
type Uniform struct {
	Radiance core.Vec3
}

func NewUniform(radiance core.Vec3) *Uniform { return &Uniform{Radiance: radiance} }

func (u *Uniform) SampleLi(ref core.Vec3, s core.Vec2) LiSample {
	wi := core.UniformSampleSphere(s)
	return LiSample{Wi: wi, Li: u.Radiance, PDF: core.UniformSpherePDF(), Distance: math.Inf(1), Valid: true}
}

func (u *Uniform) PDFLi(ref, wi core.Vec3) float64 { return core.UniformSpherePDF() }

func (u *Uniform) IsDelta() bool { return false }

func (u *Uniform) Le(dir core.Vec3) core.Vec3 { return u.Radiance }

// distribution2D is a luminance-weighted piecewise-constant 2D
// distribution built from an environment map's pixel luminances, used to
// importance-sample HDRIEnvironment-style infinite lights: a marginal
// CDF over rows, then a conditional CDF over columns within the sampled
// row, grounded on the corpus's HDRI importance-sampling reference
// (see DESIGN.md).
type distribution2D struct {
	width, height int
	marginalCDF   []float64 // length height+1
	conditionalCDF [][]float64 // [row][width+1]
	marginalFunc  []float64
	conditionalFunc [][]float64
	integral      float64
}

func buildDistribution2D(width, height int, luminance func(x, y int) float64) *distribution2D {
	d := &distribution2D{width: width, height: height}
	d.conditionalFunc = make([][]float64, height)
	d.conditionalCDF = make([][]float64, height)
	d.marginalFunc = make([]float64, height)
	d.marginalCDF = make([]float64, height+1)

	for y := 0; y < height; y++ {
		row := make([]float64, width)
		cdf := make([]float64, width+1)
		for x := 0; x < width; x++ {
			row[x] = luminance(x, y)
			cdf[x+1] = cdf[x] + row[x]
		}
		rowIntegral := cdf[width]
		if rowIntegral > 0 {
			for x := range cdf {
				cdf[x] /= rowIntegral
			}
		}
		d.conditionalFunc[y] = row
		d.conditionalCDF[y] = cdf
		d.marginalFunc[y] = rowIntegral
		d.marginalCDF[y+1] = d.marginalCDF[y] + rowIntegral
	}
	d.integral = d.marginalCDF[height] / float64(width*height)
	if d.marginalCDF[height] > 0 {
		for y := range d.marginalCDF {
			d.marginalCDF[y] /= d.marginalCDF[height]
		}
	}
	return d
}

// sample draws (u,v) in [0,1)^2 proportional to luminance and returns
// the combined PDF with respect to (u,v) measure.
func (d *distribution2D) sample(u core.Vec2) (uv core.Vec2, pdf float64) {
	y := sampleCDF(d.marginalCDF, u.X)
	row := d.conditionalCDF[y]
	x := sampleCDF(row, u.Y)

	dv := invertCDFFraction(d.marginalCDF, y, u.X)
	du := invertCDFFraction(row, x, u.Y)

	total := sum(d.marginalFunc)
	pdfMarginal := 0.0
	if total > 0 {
		pdfMarginal = d.marginalFunc[y] / total * float64(d.height)
	}
	pdfConditional := 0.0
	if rowSum := sum(d.conditionalFunc[y]); rowSum > 0 {
		pdfConditional = d.conditionalFunc[y][x] / rowSum * float64(d.width)
	}
	pdf = pdfMarginal * pdfConditional
	return core.NewVec2((float64(x)+du)/float64(d.width), (float64(y)+dv)/float64(d.height)), pdf
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// sampleCDF finds the bucket index i such that cdf[i] <= u < cdf[i+1].
func sampleCDF(cdf []float64, u float64) int {
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
	if i == 0 {
		i = 1
	}
	return i - 1
}

func invertCDFFraction(cdf []float64, idx int, u float64) float64 {
	lo, hi := cdf[idx], cdf[idx+1]
	if hi-lo < 1e-12 {
		return 0.5
	}
	return clamp01((u - lo) / (hi - lo))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// pdfAt returns the piecewise-constant PDF with respect to (u,v) measure
// at a given (u,v) coordinate, used by PDFLi.
func (d *distribution2D) pdfAt(uv core.Vec2) float64 {
	x := clampIndex(int(uv.X*float64(d.width)), d.width)
	y := clampIndex(int(uv.Y*float64(d.height)), d.height)
	total := sum(d.marginalFunc)
	if total <= 0 {
		return 0
	}
	rowSum := sum(d.conditionalFunc[y])
	if rowSum <= 0 {
		return 0
	}
	pdfMarginal := d.marginalFunc[y] / total * float64(d.height)
	pdfConditional := d.conditionalFunc[y][x] / rowSum * float64(d.width)
	return pdfMarginal * pdfConditional
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// HDRIEnvironment is a luminance-importance-sampled infinite light
// backed by an equirectangular image texture, resolving the
// infinite-light-sampling Open Question named in spec §9 in favor of
// importance sampling over uniform-sphere sampling whenever a map is
// available (grounded on the corpus's HDRI importance-sampling
// reference — see DESIGN.md).
type HDRIEnvironment struct {
	Map  texture.SpectrumTexture
	dist *distribution2D
}

// NewHDRIEnvironment builds the importance-sampling distribution for an
// equirectangular map by evaluating its luminance on a width x height
// grid.
func NewHDRIEnvironment(m texture.SpectrumTexture, width, height int) *HDRIEnvironment {
	h := &HDRIEnvironment{Map: m}
	h.dist = buildDistribution2D(width, height, func(x, y int) float64 {
		uv := core.NewVec2((float64(x)+0.5)/float64(width), (float64(y)+0.5)/float64(height))
		return m.Evaluate(uv).Luminance()
	})
	return h
}

// equirectUV maps a world-space direction to equirectangular (u,v).
func equirectUV(dir core.Vec3) core.Vec2 {
	phi := math.Atan2(dir.Z, dir.X)
	theta := math.Acos(clamp01((dir.Y+1)/2)*2 - 1)
	return core.NewVec2((phi+math.Pi)/(2*math.Pi), theta/math.Pi)
}

func equirectDir(uv core.Vec2) core.Vec3 {
	phi := uv.X*2*math.Pi - math.Pi
	theta := uv.Y * math.Pi
	sinTheta := math.Sin(theta)
	return core.NewVec3(sinTheta*math.Cos(phi), math.Cos(theta), sinTheta*math.Sin(phi))
}

func (h *HDRIEnvironment) Le(dir core.Vec3) core.Vec3 {
	return h.Map.Evaluate(equirectUV(dir.Normalize()))
}

func (h *HDRIEnvironment) SampleLi(ref core.Vec3, u core.Vec2) LiSample {
	uv, pdfUV := h.dist.sample(u)
	if pdfUV <= 0 {
		return LiSample{}
	}
	dir := equirectDir(uv)
	sinTheta := math.Sin(uv.Y * math.Pi)
	if sinTheta <= 0 {
		return LiSample{}
	}
	// Jacobian from (u,v) measure to solid angle: pdf_omega = pdf_uv / (2*pi^2*sinTheta).
	pdfSolidAngle := pdfUV / (2 * math.Pi * math.Pi * sinTheta)
	return LiSample{Wi: dir, Li: h.Map.Evaluate(uv), PDF: pdfSolidAngle, Distance: math.Inf(1), Valid: true}
}

func (h *HDRIEnvironment) PDFLi(ref, wi core.Vec3) float64 {
	dir := wi.Normalize()
	uv := equirectUV(dir)
	sinTheta := math.Sin(uv.Y * math.Pi)
	if sinTheta <= 0 {
		return 0
	}
	return h.dist.pdfAt(uv) / (2 * math.Pi * math.Pi * sinTheta)
}

func (h *HDRIEnvironment) IsDelta() bool { return false }
