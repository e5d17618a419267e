package services

import (
	"context"
	"fmt"
	"log"
	"runmap-service/internal/domain"
	"runmap-service/internal/platform/metrics"
	"runmap-service/internal/ports"
	"sync"

	"golang.org/x/sync/semaphore"
)

// RunController owns the current run (absent, or a *domain.RunPath) and the
// path-wide followRoads toggle.
//
// Mutations are single-flight: while one AddPoint, RemoveLast, Clear or Load
// is outstanding, every other mutation fails with domain.ErrAppendInProgress.
// Reads are allowed at any time and see only committed state.
//
// After each committed mutation the run document is written to the
// preference store before the call returns. Store failures are logged only.
type RunController struct {
	source   *SegmentSource
	renderer ports.Renderer
	prefs    *Preferences

	guard *semaphore.Weighted

	mu          sync.RWMutex
	current     *domain.RunPath
	followRoads bool
}

func NewRunController(
	source *SegmentSource,
	renderer ports.Renderer,
	prefs *Preferences,
	followRoads bool,
) *RunController {
	return &RunController{
		source:      source,
		renderer:    renderer,
		prefs:       prefs,
		guard:       semaphore.NewWeighted(1),
		followRoads: followRoads && source.CanFollowRoads(),
	}
}

// Read-only copy of the current run.
type RunSnapshot struct {
	State       domain.PathState
	Start       *domain.GeoPoint
	Segments    []domain.RunSegment
	Distance    float64
	FollowRoads bool
}

// AddPoint places target. The first point becomes the start of a new run;
// later points resolve a segment from the current end with the active
// strategy. On failure the run is left exactly as it was.
func (c *RunController) AddPoint(ctx context.Context, target domain.GeoPoint) (state domain.PathState, err error) {
	if err := c.acquire("add"); err != nil {
		return c.State(), err
	}
	defer c.guard.Release(1)
	defer func() { c.record("add", err) }()

	c.mu.RLock()
	path := c.current
	strategy := domain.StrategyFor(c.followRoads)
	c.mu.RUnlock()

	if path == nil {
		start := domain.RunStart{
			Location: target,
			Marker:   c.renderer.AddMarker(target, true),
		}

		c.mu.Lock()
		c.current = domain.NewRunPath(start)
		c.mu.Unlock()

		c.persist(ctx)
		return domain.HasStart, nil
	}

	if err := c.extend(ctx, path, target, strategy, true); err != nil {
		return c.State(), fmt.Errorf("add point %s: %w", target, err)
	}

	c.persist(ctx)
	return c.State(), nil
}

// extend is the one pathway that grows a run, used for live points and for
// document replay alike.
func (c *RunController) extend(
	ctx context.Context,
	path *domain.RunPath,
	target domain.GeoPoint,
	strategy domain.Strategy,
	animate bool,
) error {
	c.mu.RLock()
	previous := path.LastPosition()
	c.mu.RUnlock()

	seg, err := c.source.Resolve(ctx, previous, target, strategy)
	if err != nil {
		return err
	}

	// The marker sits on the resolved endpoint, which routing may have snapped.
	seg.Marker = c.renderer.AddMarker(seg.Endpoint, false)

	c.mu.Lock()
	err = path.Commit(seg)
	c.mu.Unlock()
	if err != nil {
		c.renderer.RemoveMarker(seg.Marker)
		return err
	}

	c.renderer.DrawSegment(seg.Marker, seg.Geometry, animate)
	return nil
}

// RemoveLast undoes one step: the tail segment if there is one, otherwise
// the start, which destroys the run. RemovedNone means there was no run.
func (c *RunController) RemoveLast(ctx context.Context) (_ domain.Removal, err error) {
	if err := c.acquire("remove_last"); err != nil {
		return domain.Removal{Kind: domain.RemovedNone}, err
	}
	defer c.guard.Release(1)
	defer func() { c.record("remove_last", err) }()

	r := c.removeLast()
	if r.Kind != domain.RemovedNone {
		c.persist(ctx)
	}
	return r, nil
}

// Clear undoes step by step until no run is left.
func (c *RunController) Clear(ctx context.Context) (err error) {
	if err := c.acquire("clear"); err != nil {
		return err
	}
	defer c.guard.Release(1)
	defer func() { c.record("clear", err) }()

	c.clear()
	c.persist(ctx)
	return nil
}

func (c *RunController) clear() {
	for c.removeLast().Kind != domain.RemovedNone {
	}
}

func (c *RunController) removeLast() domain.Removal {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return domain.Removal{Kind: domain.RemovedNone}
	}

	r, ok := c.current.RemoveLast()
	if !ok {
		r = domain.Removal{Kind: domain.RemovedStart, Marker: c.current.Start.Marker}
		c.current = nil
	}
	c.renderer.RemoveMarker(r.Marker)
	return r
}

// LoadDocument decodes a run document and replays it.
func (c *RunController) LoadDocument(ctx context.Context, doc []byte) error {
	plan, err := DeserializeRun(doc)
	if err != nil {
		return err
	}
	return c.Load(ctx, plan)
}

// Load rebuilds a run from plan by resolving every step again, one at a
// time and in order, without animation. The previous run is torn down and
// replaced only once every step has succeeded; on failure the partially
// built run is discarded and the previous one stays.
func (c *RunController) Load(ctx context.Context, plan *ReplayPlan) (err error) {
	if err := c.acquire("load"); err != nil {
		return err
	}
	defer c.guard.Release(1)
	defer func() { c.record("load", err) }()

	staged := domain.NewRunPath(domain.RunStart{
		Location: plan.Start,
		Marker:   c.renderer.AddMarker(plan.Start, true),
	})

	for i, step := range plan.Steps {
		if err := c.extend(ctx, staged, step.To, step.Strategy, false); err != nil {
			c.teardown(staged)
			return fmt.Errorf("replay segment %d: %w", i, err)
		}
	}

	followRoads := plan.FollowRoads
	if followRoads != nil && *followRoads && !c.source.CanFollowRoads() {
		log.Printf("run document asks for road following, keeping straight lines: %v", domain.ErrRoadFollowingUnavailable)
		followRoads = nil
	}

	c.clear()

	c.mu.Lock()
	c.current = staged
	if followRoads != nil {
		c.followRoads = *followRoads
	}
	c.mu.Unlock()

	if followRoads != nil {
		if err := c.prefs.SaveFollowRoads(context.WithoutCancel(ctx), *followRoads); err != nil {
			log.Printf("persist follow roads failed: %v", err)
		}
	}

	c.persist(ctx)
	return nil
}

func (c *RunController) teardown(path *domain.RunPath) {
	for _, s := range path.Segments() {
		c.renderer.RemoveMarker(s.Marker)
	}
	c.renderer.RemoveMarker(path.Start.Marker)
}

// SetFollowRoads switches the strategy used for subsequent points. Turning
// road following on without a routing backend fails with
// domain.ErrRoadFollowingUnavailable and leaves the toggle as it was.
func (c *RunController) SetFollowRoads(ctx context.Context, v bool) error {
	if v && !c.source.CanFollowRoads() {
		return domain.ErrRoadFollowingUnavailable
	}

	c.mu.Lock()
	c.followRoads = v
	c.mu.Unlock()

	if err := c.prefs.SaveFollowRoads(context.WithoutCancel(ctx), v); err != nil {
		log.Printf("persist follow roads failed: %v", err)
	}
	return nil
}

func (c *RunController) FollowRoads() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.followRoads
}

func (c *RunController) State() domain.PathState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.StateOf(c.current)
}

// Distance is 0 when there is no run.
func (c *RunController) Distance() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Distance()
}

func (c *RunController) Snapshot() RunSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := RunSnapshot{
		State:       domain.StateOf(c.current),
		FollowRoads: c.followRoads,
	}
	if c.current != nil {
		start := c.current.Start.Location
		s.Start = &start
		s.Segments = c.current.Segments()
		s.Distance = c.current.Distance()
	}
	return s
}

// Document serializes the committed run.
func (c *RunController) Document() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return SerializeRun(c.current, c.followRoads)
}

// StyleReload re-adds the whole run to the rendering surface.
func (c *RunController) StyleReload() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		c.renderer.Redraw(nil, nil)
		return
	}
	start := c.current.Start
	c.renderer.Redraw(&start, c.current.Segments())
}

func (c *RunController) acquire(kind string) error {
	if !c.guard.TryAcquire(1) {
		metrics.RunMutations.WithLabelValues(kind, "rejected").Inc()
		return domain.ErrAppendInProgress
	}
	return nil
}

func (c *RunController) record(kind string, err error) {
	metrics.RunMutations.WithLabelValues(kind, metrics.Outcome(err)).Inc()
	metrics.RunDistance.Set(c.Distance())
}

func (c *RunController) persist(ctx context.Context) {
	doc, err := c.Document()
	if err != nil {
		log.Printf("serialize run failed: %v", err)
		return
	}

	if err := c.prefs.SaveLastRun(context.WithoutCancel(ctx), doc); err != nil {
		log.Printf("persist last run failed: %v", err)
	}
}
