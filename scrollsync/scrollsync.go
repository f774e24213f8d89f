// Package scrollsync keeps two independently scrollable surfaces (the raw
// text editor and the rendered preview) at the same relative position during
// user-driven scrolling, without feedback loops.
package scrollsync

import (
	"math"
	"sync"
	"time"

	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/pkg/interfaces"
)

// ScrollInfo is a transient snapshot of one surface's scroll geometry. It is
// only ever used to compute a fractional position and is never retained
// beyond the current synchronization cycle.
type ScrollInfo struct {
	ScrollTop    float64
	ScrollHeight float64
	ClientHeight float64
}

// Fraction returns the relative scroll position clamped to [0,1]. ok is
// false when the surface has no scrollable range, in which case it is not a
// valid synchronization source.
func (i ScrollInfo) Fraction() (float64, bool) {
	scrollable := i.ScrollHeight - i.ClientHeight
	if scrollable <= 0 {
		return 0, false
	}
	fraction := i.ScrollTop / scrollable
	return math.Min(1, math.Max(0, fraction)), true
}

// Pane is the capability a scrollable surface exposes to the synchronizer.
type Pane interface {
	ScrollInfo() ScrollInfo
	ScrollToFraction(fraction float64)
}

// AnchorPane additionally supports direct anchor navigation, used for
// table-of-contents jumps.
type AnchorPane interface {
	Pane
	ScrollToAnchor(id string)
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler produces timers. The default implementation wraps time.AfterFunc;
// tests substitute a manual scheduler to drive the state machine
// deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

type side int

const (
	sideNone side = iota
	sideEditor
	sidePreview
)

func (s side) String() string {
	switch s {
	case sideEditor:
		return "editor"
	case sidePreview:
		return "preview"
	default:
		return "none"
	}
}

func (s side) other() side {
	if s == sideEditor {
		return sidePreview
	}
	return sideEditor
}

// Synchronizer couples an editor pane and a preview pane. Scrolling is
// attributed to one surface as source for a short window after its last
// event; events from the opposite surface inside that window are treated as
// programmatic echo and dropped. Corrections are debounced so bursts of
// scroll events coalesce into one command, and are skipped when the target
// is already within tolerance.
type Synchronizer struct {
	mu        sync.Mutex
	editor    Pane
	preview   Pane
	sched     Scheduler
	window    time.Duration
	delay     time.Duration
	tolerance float64
	logger    interfaces.Logger

	source      side
	sourceTimer Timer
	applyTimer  Timer
	// pending counts programmatic scroll commands per side whose resulting
	// scroll event has not been observed yet. Those events are swallowed so
	// a correction cannot re-trigger synchronization from its own target.
	pending map[side]int
}

// SyncOption customizes synchronizer construction.
type SyncOption func(*Synchronizer)

// WithScheduler overrides the timer source, used by tests.
func WithScheduler(sched Scheduler) SyncOption {
	return func(s *Synchronizer) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithSyncLogger attaches a module logger.
func WithSyncLogger(logger interfaces.Logger) SyncOption {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a synchronizer over the two panes.
func New(editor, preview Pane, cfg runtimeconfig.ScrollSyncConfig, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		editor:    editor,
		preview:   preview,
		sched:     realScheduler{},
		window:    cfg.SourceWindow,
		delay:     cfg.ApplyDelay,
		tolerance: cfg.Tolerance,
		logger:    logging.NoOp(),
		source:    sideNone,
		pending:   map[side]int{},
	}
	if s.window <= 0 {
		s.window = 150 * time.Millisecond
	}
	if s.delay <= 0 {
		s.delay = 30 * time.Millisecond
	}
	if s.tolerance <= 0 {
		s.tolerance = 0.01
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnEditorScroll reports a scroll event observed on the editor surface.
func (s *Synchronizer) OnEditorScroll() { s.onScroll(sideEditor) }

// OnPreviewScroll reports a scroll event observed on the preview surface.
func (s *Synchronizer) OnPreviewScroll() { s.onScroll(sidePreview) }

func (s *Synchronizer) onScroll(from side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending[from] > 0 {
		s.pending[from]--
		return
	}

	if s.source != sideNone && s.source != from {
		// The opposite surface owns the attribution window; this event is
		// echo and must not re-propagate.
		return
	}

	s.source = from
	if s.sourceTimer != nil {
		s.sourceTimer.Stop()
	}
	s.sourceTimer = s.sched.AfterFunc(s.window, s.clearSource)

	if s.applyTimer != nil {
		s.applyTimer.Stop()
	}
	s.applyTimer = s.sched.AfterFunc(s.delay, func() { s.apply(from) })
}

func (s *Synchronizer) clearSource() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = sideNone
}

func (s *Synchronizer) apply(from side) {
	s.mu.Lock()

	src := s.pane(from)
	dst := s.pane(from.other())

	fraction, ok := src.ScrollInfo().Fraction()
	if !ok {
		s.mu.Unlock()
		return
	}
	current, ok := dst.ScrollInfo().Fraction()
	if !ok {
		// The target has no scrollable range; synchronization in this
		// direction is a no-op.
		s.mu.Unlock()
		return
	}
	if math.Abs(current-fraction) <= s.tolerance {
		s.mu.Unlock()
		return
	}

	s.pending[from.other()]++
	s.logger.Debug("scroll correction",
		"source", from.String(),
		"fraction", fraction,
	)
	s.mu.Unlock()

	// Called outside the lock: the pane may deliver the resulting scroll
	// event synchronously, which re-enters onScroll.
	dst.ScrollToFraction(fraction)
}

// ScrollToHeading navigates the preview directly to a heading anchor. This
// is a single-shot jump outside the continuous sync loop: it does not engage
// source attribution or debouncing.
func (s *Synchronizer) ScrollToHeading(id string) {
	if anchored, ok := s.preview.(AnchorPane); ok {
		anchored.ScrollToAnchor(id)
	}
}

func (s *Synchronizer) pane(which side) Pane {
	if which == sideEditor {
		return s.editor
	}
	return s.preview
}
