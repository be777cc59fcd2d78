// Package viewer holds the story viewer's state machine: a per-user ordered
// carousel with autoplay progress, manual navigation, pause, keyboard input
// and swipe gestures. It is UI-agnostic; the consumer drives it with ticks
// and events and renders from its accessors.
package viewer

import (
	"sync"
	"time"

	"github.com/minhnghia2k3/lumigram/internal/domain"
)

// Autoplay timing: one Tick every TickInterval advances progress by
// ProgressStep, so a story runs about five seconds.
const (
	TickInterval   = 25 * time.Millisecond
	ProgressStep   = 0.5
	SwipeThreshold = 50.0
)

// Key is a keyboard event the viewer understands.
type Key int

const (
	KeyEscape Key = iota
	KeyArrowLeft
	KeyArrowRight
	KeySpace
)

// ScrollLockFunc is called with true when the viewer opens (page scroll must
// be suppressed) and false when it closes.
type ScrollLockFunc func(locked bool)

// Viewer steps through every user's stories in order. Advancing past the
// last item of the last user closes it; retreating from the first item of
// the first user is a no-op.
type Viewer struct {
	mu sync.Mutex

	all        []domain.UserStories
	userIdx    int
	storyIdx   int
	progress   float64
	paused     bool
	open       bool
	touchStart float64
	touching   bool

	lockScroll ScrollLockFunc
}

func New(all []domain.UserStories, lockScroll ScrollLockFunc) *Viewer {
	if lockScroll == nil {
		lockScroll = func(bool) {}
	}
	return &Viewer{
		all:        all,
		lockScroll: lockScroll,
	}
}

// Open shows the viewer at the given user's first story.
func (v *Viewer) Open(initialUser int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.all) == 0 || initialUser < 0 || initialUser >= len(v.all) {
		return
	}
	v.userIdx = initialUser
	v.storyIdx = 0
	v.progress = 0
	v.paused = false
	if !v.open {
		v.open = true
		v.lockScroll(true)
	}
}

// Close hides the viewer and restores page scroll. Idempotent.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.close()
}

func (v *Viewer) close() {
	if !v.open {
		return
	}
	v.open = false
	v.lockScroll(false)
}

// Tick advances the progress counter by one step while playing. Reaching
// 100% moves to the next item and resets progress.
func (v *Viewer) Tick() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open || v.paused {
		return
	}
	v.progress += ProgressStep
	if v.progress >= 100 {
		v.progress = 0
		v.advance()
	}
}

// Advance moves to the next item within the current user, else to the next
// user's first item, else closes the viewer.
func (v *Viewer) Advance() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open {
		return
	}
	v.progress = 0
	v.advance()
}

func (v *Viewer) advance() {
	stories := v.all[v.userIdx].Stories
	switch {
	case v.storyIdx < len(stories)-1:
		v.storyIdx++
	case v.userIdx < len(v.all)-1:
		v.userIdx++
		v.storyIdx = 0
	default:
		v.close()
	}
}

// Retreat moves to the previous item within the current user, else to the
// previous user's last item. At the very beginning it does nothing.
func (v *Viewer) Retreat() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open {
		return
	}
	v.progress = 0
	switch {
	case v.storyIdx > 0:
		v.storyIdx--
	case v.userIdx > 0:
		v.userIdx--
		v.storyIdx = len(v.all[v.userIdx].Stories) - 1
	}
}

// TogglePause flips playing/paused without resetting progress.
func (v *Viewer) TogglePause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = !v.paused
}

// JumpToUser sets the given user's first item as current, regardless of
// prior position.
func (v *Viewer) JumpToUser(userIdx int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if userIdx < 0 || userIdx >= len(v.all) {
		return
	}
	v.userIdx = userIdx
	v.storyIdx = 0
	v.progress = 0
}

// HandleKey maps keyboard input onto the machine.
func (v *Viewer) HandleKey(key Key) {
	switch key {
	case KeyEscape:
		v.Close()
	case KeyArrowLeft:
		v.Retreat()
	case KeyArrowRight:
		v.Advance()
	case KeySpace:
		v.TogglePause()
	}
}

// TouchStart records the horizontal origin of a touch.
func (v *Viewer) TouchStart(x float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.touchStart = x
	v.touching = true
}

// TouchEnd resolves the gesture: a horizontal move past the threshold maps
// onto Advance (swipe left) or Retreat (swipe right).
func (v *Viewer) TouchEnd(x float64) {
	v.mu.Lock()
	if !v.touching {
		v.mu.Unlock()
		return
	}
	v.touching = false
	diff := v.touchStart - x
	v.mu.Unlock()

	if diff > SwipeThreshold {
		v.Advance()
	} else if diff < -SwipeThreshold {
		v.Retreat()
	}
}

func (v *Viewer) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

func (v *Viewer) Paused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paused
}

func (v *Viewer) Progress() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.progress
}

// Position returns the current (user, story) indices.
func (v *Viewer) Position() (userIdx, storyIdx int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.userIdx, v.storyIdx
}

// Current returns the story under the cursor, or nil when the viewer is
// closed or empty.
func (v *Viewer) Current() *domain.Story {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.open || v.userIdx >= len(v.all) {
		return nil
	}
	stories := v.all[v.userIdx].Stories
	if v.storyIdx >= len(stories) {
		return nil
	}
	story := stories[v.storyIdx]
	return &story
}
