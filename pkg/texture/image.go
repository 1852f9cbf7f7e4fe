package texture

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // broadens LoadModel's accepted texture formats, per spec §6 LoadModel collaborator
	_ "golang.org/x/image/webp"

	"github.com/anthropics/go-tracer-core/pkg/core"
)

// maxTextureDim caps the resolution a texture is decoded at; larger
// source images are bilinearly downsampled with x/image/draw, since nearest-
// neighbor sampling (spec §4.F) over an oversized source is wasted
// memory for no visual gain at typical camera distances.
const maxTextureDim = 4096

func downsampleIfNeeded(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxTextureDim && b.Dy() <= maxTextureDim {
		return src
	}
	scale := maxTextureDim / math.Max(float64(b.Dx()), float64(b.Dy()))
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// WrapMode selects how out-of-range UV coordinates are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapClamp
)

// decodedImage holds sRGB-decoded-to-linear texel data, cached by
// filename so repeated CreateTexture calls for the same file don't
// re-decode it.
type decodedImage struct {
	width, height int
	linear        []core.Vec3 // row-major, sRGB already converted to linear
}

// Cache is the process-wide-by-default image texture cache named in
// spec §9 ("Design Notes — Global state"): append-only during scene
// build, read-only during render. Per that same note, a renderer hosting
// multiple scenes should construct one Cache per Scene rather than share
// a package-level global, which is exactly what pkg/scene does — Cache
// is a plain value type, never a package-level var.
type Cache struct {
	images map[string]*decodedImage
}

// NewCache creates an empty, scene-scoped image cache.
func NewCache() *Cache { return &Cache{images: make(map[string]*decodedImage)} }

// Load decodes (or returns the cached decode of) the image at path,
// converting 8-bit sRGB channels to linear via x -> (x/255)^2.2 at load
// time, per spec §4.F.
func (c *Cache) Load(path string) (*decodedImage, error) {
	if img, ok := c.images[path]; ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open texture %q", path)
	}
	defer f.Close()

	decoded0, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode texture %q", path)
	}
	src := downsampleIfNeeded(decoded0)

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	linear := make([]core.Vec3, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			linear[y*w+x] = core.Vec3{
				X: srgbToLinear(float64(r>>8) / 255.0),
				Y: srgbToLinear(float64(g>>8) / 255.0),
				Z: srgbToLinear(float64(b>>8) / 255.0),
			}
		}
	}

	decoded := &decodedImage{width: w, height: h, linear: linear}
	c.images[path] = decoded
	return decoded, nil
}

func srgbToLinear(x float64) float64 { return math.Pow(x, 2.2) }

// ImageTexture samples a cached decoded image at a UV coordinate using
// nearest-neighbor filtering, per spec §4.F.
type ImageTexture struct {
	img  *decodedImage
	wrap WrapMode
}

// NewImageTexture builds an ImageTexture backed by cache's decode of
// path; wrap selects how out-of-range UVs are handled.
func NewImageTexture(cache *Cache, path string, wrap WrapMode) (*ImageTexture, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &ImageTexture{img: img, wrap: wrap}, nil
}

func (t *ImageTexture) Evaluate(uv core.Vec2) core.Vec3 {
	x := int(uv.X * float64(t.img.width))
	y := int((1 - uv.Y) * float64(t.img.height))
	x = wrapCoord(x, t.img.width, t.wrap)
	y = wrapCoord(y, t.img.height, t.wrap)
	return t.img.linear[y*t.img.width+x]
}

func wrapCoord(c, size int, mode WrapMode) int {
	if size <= 0 {
		return 0
	}
	switch mode {
	case WrapClamp:
		if c < 0 {
			return 0
		}
		if c >= size {
			return size - 1
		}
		return c
	default: // WrapRepeat
		c %= size
		if c < 0 {
			c += size
		}
		return c
	}
}
