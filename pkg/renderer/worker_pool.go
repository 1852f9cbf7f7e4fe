package renderer

import (
	"runtime"
	"sync"

	"github.com/anthropics/go-tracer-core/pkg/integrator"
	"github.com/anthropics/go-tracer-core/pkg/scene"
)

// TileTask is one tile's work for a single progressive pass.
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int
	PixelStats    [][]PixelStats
}

// TileTaskResult is a completed tile's statistics.
type TileTaskResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool dispatches TileTasks across a fixed number of goroutines,
// each backed by its own TileRenderer so concurrent tiles never share
// mutable per-call state, per spec §5's "ray casts hold no locks".
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileTaskResult
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a pool of numWorkers TileRenderers over s (0
// auto-detects CPU count). Each worker has its own TileRenderer, but all
// of them share the same Camera and Integrator values.
func NewWorkerPool(s *scene.Scene, cam *Camera, integ integrator.Integrator, config RenderConfig, maxTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, maxTiles),
		resultQueue: make(chan TileTaskResult, maxTiles),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		tr := NewTileRenderer(s, cam, integ, config)
		wp.wg.Add(1)
		go wp.run(tr)
	}
	return wp
}

func (wp *WorkerPool) run(tr *TileRenderer) {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		stats := tr.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.TargetSamples)
		wp.resultQueue <- TileTaskResult{TaskID: task.TaskID, Stats: stats}
	}
}

// SubmitTask enqueues one tile's work.
func (wp *WorkerPool) SubmitTask(task TileTask) { wp.taskQueue <- task }

// GetResult blocks for the next completed tile's result.
func (wp *WorkerPool) GetResult() (TileTaskResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// Stop closes the task queue, waits for every worker to drain it, then
// closes the result queue.
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// NumWorkers reports how many goroutines this pool is running.
func (wp *WorkerPool) NumWorkers() int { return wp.numWorkers }
