package lighting

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-shadows/common"
	"github.com/Carmen-Shannon/oxy-shadows/engine/light"
	"github.com/Carmen-Shannon/oxy-shadows/engine/logger"
	"github.com/Carmen-Shannon/oxy-shadows/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
	"go.trai.ch/zerr"
)

// DefaultParallelPackThreshold is the light count at which packing moves onto the worker pool.
const DefaultParallelPackThreshold = 64

// LightSource is the part of the entity registry the preparer reads from.
type LightSource interface {
	// DrainDirtyLights returns the dirty lights and clears every non-movable one from the set.
	DrainDirtyLights() []light.Light
	// MarkLightDirty re-enrolls a registered light for the next drain.
	MarkLightDirty(l light.Light) error
	// Lights returns every registered light in index order.
	Lights() []light.Light
}

// DrawFunc records the shadow casters for one cube face of a light into the open pass.
type DrawFunc func(cmd renderer.CommandContext, l light.Light, kind light.ShadowTargetKind, face common.CubeFace, viewProj mgl32.Mat4) error

// FrameResult summarizes one call to PrepareFrame.
type FrameResult struct {
	// Drained is the number of lights taken from the dirty set.
	Drained int
	// Passes is the number of face passes recorded.
	Passes int
	// Skipped names the lights whose shadow work failed and was deferred to the next frame.
	Skipped []string
	// Records holds the packed GPU record of every registered light in index order.
	Records []light.GPUPointLight
}

// Buffer returns Records serialized for upload to a light storage buffer.
func (r FrameResult) Buffer() []byte {
	return light.MarshalLightBuffer(r.Records)
}

// Preparer renders the shadow maps of dirty lights and packs light records once per frame.
//
// It is driven from the frame loop's goroutine. Only packing fans out to the worker pool and
// packing reads light state without modifying it.
type Preparer struct {
	src      LightSource
	recorder renderer.ShadowPassRecorder
	draw     DrawFunc

	packWorkers       int
	parallelThreshold int
	pool              worker.DynamicWorkerPool

	// lights whose static target holds a completed bake
	baked map[light.Light]struct{}
}

// NewPreparer creates a Preparer reading lights from src and recording passes through recorder.
//
// Parameters:
//   - src: the light source, normally the entity registry
//   - recorder: the pass recorder, normally the renderer
//   - options: functional options applied after defaults
//
// Returns:
//   - *Preparer: the new preparer
func NewPreparer(src LightSource, recorder renderer.ShadowPassRecorder, options ...PreparerBuilderOption) *Preparer {
	if src == nil || recorder == nil {
		panic("lighting: NewPreparer requires a light source and a pass recorder")
	}

	p := &Preparer{
		src:               src,
		recorder:          recorder,
		packWorkers:       runtime.NumCPU(),
		parallelThreshold: DefaultParallelPackThreshold,
		baked:             make(map[light.Light]struct{}),
	}
	for _, option := range options {
		option(p)
	}

	if p.packWorkers > 1 {
		p.pool = worker.NewDynamicWorkerPool(p.packWorkers, 256, 1*time.Second)
	}
	return p
}

// Baked reports whether l's static target holds a completed bake.
func (p *Preparer) Baked(l light.Light) bool {
	_, ok := p.baked[l]
	return ok
}

// Invalidate forgets l's static bake so the next drain of l renders it from scratch,
// including for movable lights that otherwise reuse their first bake.
func (p *Preparer) Invalidate(l light.Light) {
	delete(p.baked, l)
}

// PrepareFrame drains the dirty lights once, renders their shadow maps into cmd and packs every
// registered light.
//
// A light whose allocation or recording fails is skipped, listed in FrameResult.Skipped and marked
// dirty again so the next frame retries it. A contract violation stops the frame: the lights not yet
// processed are marked dirty again and the error wraps ErrFrameAborted. Records are packed only when
// the frame completes.
//
// Parameters:
//   - cmd: the command context of the open shadow frame
//
// Returns:
//   - FrameResult: counters, skipped lights and packed records
//   - error: an error matching both ErrFrameAborted and the contract violation, or nil
func (p *Preparer) PrepareFrame(cmd renderer.CommandContext) (FrameResult, error) {
	var res FrameResult

	drained := p.src.DrainDirtyLights()
	res.Drained = len(drained)

	for i, l := range drained {
		if !l.CastsShadows() {
			continue
		}

		passes, err := p.prepareLight(cmd, l)
		res.Passes += passes
		if err == nil {
			continue
		}

		if light.IsContractViolation(err) {
			for _, rest := range drained[i:] {
				p.requeue(rest)
			}
			return res, zerr.Wrap(errors.Join(ErrFrameAborted, err), "light "+l.Name())
		}

		logger.Logger().Warn("shadow preparation skipped", "light", l.Name(), "error", err)
		res.Skipped = append(res.Skipped, l.Name())
		p.requeue(l)
	}

	for l := range p.baked {
		if l.Destroyed() {
			delete(p.baked, l)
		}
	}

	res.Records = p.pack(p.src.Lights())
	return res, nil
}

func (p *Preparer) requeue(l light.Light) {
	if err := p.src.MarkLightDirty(l); err != nil {
		logger.Logger().Debug("light not requeued", "light", l.Name(), "error", err)
	}
}

func (p *Preparer) prepareLight(cmd renderer.CommandContext, l light.Light) (int, error) {
	if !l.Movable() {
		return p.bakeStatic(cmd, l)
	}

	passes := 0
	if !p.Baked(l) {
		n, err := p.bakeStatic(cmd, l)
		passes += n
		if err != nil {
			return passes, err
		}
	}

	if _, err := l.EnsureDynamicTarget(); err != nil {
		return passes, err
	}
	if err := l.SeedDynamicTarget(cmd); err != nil {
		return passes, err
	}
	if err := l.TransitionLayout(cmd, light.ShadowTargetDynamic, renderer.LayoutDepthAttachmentOptimal); err != nil {
		return passes, err
	}
	n, err := p.renderFaces(cmd, l, light.ShadowTargetDynamic)
	passes += n
	if err != nil {
		return passes, err
	}
	if err := l.TransitionLayout(cmd, light.ShadowTargetDynamic, renderer.LayoutDepthReadOnlyOptimal); err != nil {
		return passes, err
	}
	return passes, l.TransitionLayout(cmd, light.ShadowTargetStatic, renderer.LayoutDepthReadOnlyOptimal)
}

// bakeStatic renders all six faces of l's static target from scratch and leaves it sampleable.
func (p *Preparer) bakeStatic(cmd renderer.CommandContext, l light.Light) (int, error) {
	delete(p.baked, l)

	if _, err := l.EnsureStaticTarget(); err != nil {
		return 0, err
	}
	if err := l.TransitionLayout(cmd, light.ShadowTargetStatic, renderer.LayoutDepthAttachmentOptimal); err != nil {
		return 0, err
	}
	passes, err := p.renderFaces(cmd, l, light.ShadowTargetStatic)
	if err != nil {
		return passes, err
	}
	if err := l.TransitionLayout(cmd, light.ShadowTargetStatic, renderer.LayoutDepthReadOnlyOptimal); err != nil {
		return passes, err
	}

	p.baked[l] = struct{}{}
	return passes, nil
}

func (p *Preparer) renderFaces(cmd renderer.CommandContext, l light.Light, kind light.ShadowTargetKind) (int, error) {
	faces := l.FaceViewProjections()
	for _, face := range common.CubeFaces {
		fb, err := l.FaceFramebuffer(kind, int(face))
		if err != nil {
			return int(face), err
		}
		if err := p.recorder.BeginShadowPass(cmd, fb); err != nil {
			return int(face), zerr.With(zerr.Wrap(err, "begin shadow pass"), "face", face.String())
		}

		var drawErr error
		if p.draw != nil {
			drawErr = p.draw(cmd, l, kind, face, faces[face])
		}
		p.recorder.EndShadowPass(cmd)
		if drawErr != nil {
			return int(face) + 1, zerr.With(zerr.Wrap(drawErr, "draw shadow casters"), "face", face.String())
		}
	}
	return common.CubeFaceCount, nil
}

// pack builds the GPU records for lights, fanning out to the worker pool for large counts.
func (p *Preparer) pack(lights []light.Light) []light.GPUPointLight {
	records := make([]light.GPUPointLight, len(lights))
	if p.pool == nil || len(lights) < p.parallelThreshold || len(lights) == 0 {
		for i, l := range lights {
			records[i] = l.Pack()
		}
		return records
	}

	chunk := (len(lights) + p.packWorkers - 1) / p.packWorkers
	var wg sync.WaitGroup
	for id, start := 0, 0; start < len(lights); id, start = id+1, start+chunk {
		end := min(start+chunk, len(lights))
		wg.Add(1)
		p.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					records[i] = lights[i].Pack()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return records
}
