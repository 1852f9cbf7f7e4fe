package medium

import (
	"math"

	"github.com/anthropics/go-tracer-core/pkg/bounds"
	"github.com/anthropics/go-tracer-core/pkg/core"
)

// VoxelGrid is a heterogeneous participating medium backed by a dense
// density grid (a NanoVDB-style sparse volume in spirit, dense in this
// implementation since no corpus dependency exposes a sparse tree
// structure — see DESIGN.md), per spec §4.J. A majorant is precomputed
// for each coarse 4^3 block and used by Majorant; Iterator's DDA steps
// voxel by voxel, yielding one segment per traversed voxel.
type VoxelGrid struct {
	bounds              bounds.AABB3
	nx, ny, nz          int
	density             []float32 // row-major, x fastest
	sigmaA, sigmaS      core.Vec3 // per-unit-density coefficients
	g                   float64
	blockMajorant       []float64 // coarse 4^3-block majorants
	blockSize           int
}

// NewVoxelGrid builds a VoxelGrid over box with an nx*ny*nz density
// field, and the per-unit-density absorption/scattering coefficients.
func NewVoxelGrid(box bounds.AABB3, nx, ny, nz int, density []float32, sigmaA, sigmaS core.Vec3, g float64) *VoxelGrid {
	v := &VoxelGrid{bounds: box, nx: nx, ny: ny, nz: nz, density: density, sigmaA: sigmaA, sigmaS: sigmaS, g: g, blockSize: 4}
	v.buildBlockMajorants()
	return v
}

func (v *VoxelGrid) idx(x, y, z int) int { return (z*v.ny+y)*v.nx + x }

func (v *VoxelGrid) buildBlockMajorants() {
	bx := (v.nx + v.blockSize - 1) / v.blockSize
	by := (v.ny + v.blockSize - 1) / v.blockSize
	bz := (v.nz + v.blockSize - 1) / v.blockSize
	v.blockMajorant = make([]float64, bx*by*bz)
	sigmaTScale := v.sigmaA.Add(v.sigmaS).MaxComponent()

	for zb := 0; zb < bz; zb++ {
		for yb := 0; yb < by; yb++ {
			for xb := 0; xb < bx; xb++ {
				var maxDensity float32
				for z := zb * v.blockSize; z < min(v.nz, (zb+1)*v.blockSize); z++ {
					for y := yb * v.blockSize; y < min(v.ny, (yb+1)*v.blockSize); y++ {
						for x := xb * v.blockSize; x < min(v.nx, (xb+1)*v.blockSize); x++ {
							if d := v.density[v.idx(x, y, z)]; d > maxDensity {
								maxDensity = d
							}
						}
					}
				}
				v.blockMajorant[(zb*by+yb)*bx+xb] = float64(maxDensity) * sigmaTScale
			}
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (v *VoxelGrid) IsVacuum() bool { return false }

func (v *VoxelGrid) densityAt(p core.Vec3) float32 {
	local := p.Subtract(v.bounds.Min)
	extent := v.bounds.Extent()
	if extent.X <= 0 || extent.Y <= 0 || extent.Z <= 0 {
		return 0
	}
	x := clampVoxel(int(local.X/extent.X*float64(v.nx)), v.nx)
	y := clampVoxel(int(local.Y/extent.Y*float64(v.ny)), v.ny)
	z := clampVoxel(int(local.Z/extent.Z*float64(v.nz)), v.nz)
	return v.density[v.idx(x, y, z)]
}

func clampVoxel(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (v *VoxelGrid) SigmaA(p core.Vec3) core.Vec3 { return v.sigmaA.Multiply(float64(v.densityAt(p))) }
func (v *VoxelGrid) SigmaS(p core.Vec3) core.Vec3 { return v.sigmaS.Multiply(float64(v.densityAt(p))) }
func (v *VoxelGrid) G(core.Vec3) float64          { return v.g }
func (v *VoxelGrid) Le(core.Vec3) core.Vec3       { return core.Vec3{} }

// Majorant returns a single bound covering the whole requested segment;
// finer per-block bounds are exposed through Iterator for the DDA walk.
func (v *VoxelGrid) Majorant(ray core.Ray, tMin, tMax float64) MajorantSegment {
	maxMaj := 0.0
	for _, m := range v.blockMajorant {
		if m > maxMaj {
			maxMaj = m
		}
	}
	return MajorantSegment{TMin: tMin, TMax: tMax, SigmaMaj: maxMaj}
}

// voxelIterator performs a 3-D DDA walk over the grid's voxels,
// reporting one MajorantSegment per traversed voxel using that voxel's
// exact sigma_t as its own majorant (tight bound, no block coarsening —
// the block-level majorant is reserved for empty-space skipping, not yet
// wired into this walk's step size; see DESIGN.md), per spec §4.J.
type voxelIterator struct {
	grid             *VoxelGrid
	ray              core.Ray
	x, y, z          int
	stepX, stepY, stepZ int
	tMaxX, tMaxY, tMaxZ float64
	tDeltaX, tDeltaY, tDeltaZ float64
	tCur, tEnd       float64
	sigmaTScale      float64
}

func (v *VoxelGrid) Iterator(ray core.Ray, tMin, tMax float64) MajorantIterator {
	extent := v.bounds.Extent()
	if extent.X <= 0 || extent.Y <= 0 || extent.Z <= 0 {
		return &voxelIterator{tCur: tMax, tEnd: tMax}
	}
	voxelSizeX := extent.X / float64(v.nx)
	voxelSizeY := extent.Y / float64(v.ny)
	voxelSizeZ := extent.Z / float64(v.nz)

	entry := ray.At(tMin).Subtract(v.bounds.Min)
	x := clampVoxel(int(entry.X/voxelSizeX), v.nx)
	y := clampVoxel(int(entry.Y/voxelSizeY), v.ny)
	z := clampVoxel(int(entry.Z/voxelSizeZ), v.nz)

	it := &voxelIterator{
		grid: v, ray: ray, x: x, y: y, z: z,
		tCur: tMin, tEnd: tMax,
		sigmaTScale: v.sigmaA.Add(v.sigmaS).MaxComponent(),
	}
	it.stepX, it.tMaxX, it.tDeltaX = ddaAxis(ray.Direction.X, v.bounds.Min.X+float64(x)*voxelSizeX, voxelSizeX, ray.Origin.X, tMin)
	it.stepY, it.tMaxY, it.tDeltaY = ddaAxis(ray.Direction.Y, v.bounds.Min.Y+float64(y)*voxelSizeY, voxelSizeY, ray.Origin.Y, tMin)
	it.stepZ, it.tMaxZ, it.tDeltaZ = ddaAxis(ray.Direction.Z, v.bounds.Min.Z+float64(z)*voxelSizeZ, voxelSizeZ, ray.Origin.Z, tMin)
	return it
}

// ddaAxis computes one axis's DDA step direction, the ray parameter of
// the next voxel boundary crossing, and the per-voxel t increment.
func ddaAxis(dirComp, voxelMinWorld, voxelSize, originComp, tMin float64) (step int, tMax, tDelta float64) {
	if dirComp > 0 {
		step = 1
		tMax = (voxelMinWorld + voxelSize - originComp) / dirComp
		tDelta = voxelSize / dirComp
	} else if dirComp < 0 {
		step = -1
		tMax = (voxelMinWorld - originComp) / dirComp
		tDelta = -voxelSize / dirComp
	} else {
		step = 0
		tMax = math.Inf(1)
		tDelta = math.Inf(1)
	}
	return step, tMax, tDelta
}

func (it *voxelIterator) Next() (MajorantSegment, bool) {
	if it.tCur >= it.tEnd || it.grid == nil {
		return MajorantSegment{}, false
	}
	if it.x < 0 || it.x >= it.grid.nx || it.y < 0 || it.y >= it.grid.ny || it.z < 0 || it.z >= it.grid.nz {
		return MajorantSegment{}, false
	}

	density := it.grid.density[it.grid.idx(it.x, it.y, it.z)]
	sigmaMaj := float64(density) * it.sigmaTScale

	nextT := math.Min(it.tMaxX, math.Min(it.tMaxY, it.tMaxZ))
	segEnd := math.Min(nextT, it.tEnd)
	seg := MajorantSegment{TMin: it.tCur, TMax: segEnd, SigmaMaj: sigmaMaj}

	it.tCur = segEnd
	if nextT <= it.tEnd {
		switch {
		case it.tMaxX <= it.tMaxY && it.tMaxX <= it.tMaxZ:
			it.x += it.stepX
			it.tMaxX += it.tDeltaX
		case it.tMaxY <= it.tMaxZ:
			it.y += it.stepY
			it.tMaxY += it.tDeltaY
		default:
			it.z += it.stepZ
			it.tMaxZ += it.tDeltaZ
		}
	}
	return seg, true
}
