package registry

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

// paletteView is a subscriber that understands palettes.
type paletteView struct {
	Base
	received []string
	onUpdate func(*theme.Palette)
}

func (v *paletteView) UpdateAppearance(p *theme.Palette) {
	v.received = append(v.received, p.Name())
	if v.onUpdate != nil {
		v.onUpdate(p)
	}
}

// calmView opts out of animated transitions.
type calmView struct {
	paletteView
}

func (v *calmView) AnimationPreference() bool { return false }

// cssView is a subscriber that understands stylesheets only.
type cssView struct {
	Base
	received []string
}

func (v *cssView) UpdateAppearance(s *theme.Stylesheet) {
	v.received = append(v.received, s.Name())
}

// anyView accepts every theme kind.
type anyView struct {
	Base
	received []string
}

func (v *anyView) UpdateAppearance(th theme.Theme) {
	v.received = append(v.received, th.Name())
}

// closableView can be destroyed by its owner while still referenced.
type closableView struct {
	paletteView
	closed bool
}

func (v *closableView) Alive() bool { return !v.closed }

// countingView records deliveries outside itself so it can be collected.
type countingView struct {
	Base
	count *int
	_     [64]byte
}

func (v *countingView) UpdateAppearance(*theme.Palette) { *v.count++ }

type runCall struct {
	animated bool
	duration time.Duration
}

type recordingRunner struct {
	calls []runCall
}

func (r *recordingRunner) Run(animated bool, d time.Duration, action func()) {
	r.calls = append(r.calls, runCall{animated: animated, duration: d})
	action()
}

func palette(name string) *theme.Palette {
	return theme.NewPalette(name, true, theme.Colors{})
}

func registerDetached(r *Registry, count *int) ID {
	return Register[*theme.Palette](r, &countingView{count: count})
}

func collect(t *testing.T, r *Registry, id ID) {
	t.Helper()
	for i := 0; i < 10 && r.Contains(id); i++ {
		runtime.GC()
	}
	require.False(t, r.Contains(id), "subscriber should have been collected")
}

func TestRegister_UniqueIDs(t *testing.T) {
	r := New(Options{})

	views := make([]*paletteView, 100)
	seen := make(map[ID]bool)
	for i := range views {
		views[i] = &paletteView{}
		id := Register[*theme.Palette](r, views[i])
		require.NotZero(t, id)
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.Equal(t, id, views[i].SubscriberID())
	}

	assert.Equal(t, 100, r.Len())
	assert.Len(t, r.IDs(), 100)
	runtime.KeepAlive(views)
}

func TestRegister_IDsStartAtOne(t *testing.T) {
	r := New(Options{})
	v := &paletteView{}
	assert.Equal(t, ID(1), Register[*theme.Palette](r, v))
}

func TestRegister_Idempotent(t *testing.T) {
	r := New(Options{})
	v := &paletteView{}

	first := Register[*theme.Palette](r, v)
	second := Register[*theme.Palette](r, v)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Len())
	assert.True(t, v.SubscriberTag().Registered())
}

func TestRegister_CopiedSubscriberGetsOwnID(t *testing.T) {
	r := New(Options{})
	original := &paletteView{}
	origID := Register[*theme.Palette](r, original)

	clone := &paletteView{}
	*clone = *original
	cloneID := Register[*theme.Palette](r, clone)

	assert.NotEqual(t, origID, cloneID)
	assert.Equal(t, origID, original.SubscriberID())
	assert.Equal(t, cloneID, clone.SubscriberID())
	assert.Equal(t, 2, r.Len())

	r.Broadcast(palette("p"))
	assert.Equal(t, []string{"p"}, original.received)
	assert.Equal(t, []string{"p"}, clone.received)

	// Unsubscribing the copy leaves the original registered
	clone.Unsubscribe()
	assert.True(t, r.Contains(origID))
	assert.True(t, original.SubscriberTag().Registered())
}

func TestRegister_MovesBetweenRegistries(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	v := &paletteView{}

	idA := Register[*theme.Palette](a, v)
	Register[*theme.Palette](b, v)

	assert.False(t, a.Contains(idA))
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, b.Len())

	a.Broadcast(palette("a"))
	b.Broadcast(palette("b"))
	assert.Equal(t, []string{"b"}, v.received)
}

func TestRegister_NilTag(t *testing.T) {
	r := New(Options{})
	assert.Zero(t, Register[*theme.Palette](r, nilTagView{}))
	assert.Equal(t, 0, r.Len())
}

type nilTagView struct{}

func (nilTagView) SubscriberTag() *Tag             { return nil }
func (nilTagView) UpdateAppearance(*theme.Palette) {}
func (nilTagView) AnimationPreference() bool       { return true }

func TestUnregister(t *testing.T) {
	r := New(Options{})
	v := &paletteView{}
	Register[*theme.Palette](r, v)

	r.Unregister(v.SubscriberTag())
	assert.Equal(t, 0, r.Len())
	assert.Zero(t, v.SubscriberID())
	assert.False(t, v.SubscriberTag().Registered())

	// Repeat and nil are no-ops
	r.Unregister(v.SubscriberTag())
	r.Unregister(nil)

	r.Broadcast(palette("dark"))
	assert.Empty(t, v.received)
}

func TestUnregisterID(t *testing.T) {
	r := New(Options{})
	v := &paletteView{}
	id := Register[*theme.Palette](r, v)

	r.UnregisterID(id)
	assert.Equal(t, 0, r.Len())
	assert.Zero(t, v.SubscriberID(), "tag is cleared")

	r.UnregisterID(id)
	r.UnregisterID(9999)
	assert.Equal(t, 0, r.Len())
}

func TestUnregister_OtherRegistryIgnored(t *testing.T) {
	a := New(Options{})
	b := New(Options{})
	v := &paletteView{}
	Register[*theme.Palette](a, v)

	b.Unregister(v.SubscriberTag())
	assert.Equal(t, 1, a.Len())
	assert.True(t, v.SubscriberTag().Registered())
}

func TestBase_Forwarders(t *testing.T) {
	current := palette("current")
	r := New(Options{Source: func() theme.Theme { return current }})
	v := &paletteView{}
	Register[*theme.Palette](r, v)

	v.RequestImmediateUpdate()
	assert.Equal(t, []string{"current"}, v.received)

	v.Unsubscribe()
	v.Unsubscribe()
	assert.Equal(t, 0, r.Len())

	v.RequestImmediateUpdate()
	assert.Len(t, v.received, 1, "no delivery after unsubscribe")
}

func TestRequestImmediateUpdate_NoSource(t *testing.T) {
	r := New(Options{})
	v := &anyView{}
	Register[theme.Theme](r, v)

	v.RequestImmediateUpdate()
	assert.Equal(t, []string{theme.EmptyName}, v.received)
}

func TestBroadcast_DeliversToAll(t *testing.T) {
	r := New(Options{})

	const n = 25
	views := make([]*paletteView, n)
	for i := range views {
		views[i] = &paletteView{}
		Register[*theme.Palette](r, views[i])
	}

	r.Broadcast(palette("dark"))

	for i, v := range views {
		assert.Equal(t, []string{"dark"}, v.received, "view %d", i)
	}
}

func TestBroadcast_TypeMismatchSkipped(t *testing.T) {
	r := New(Options{})
	pv := &paletteView{}
	cv := &cssView{}
	av := &anyView{}
	Register[*theme.Palette](r, pv)
	Register[*theme.Stylesheet](r, cv)
	Register[theme.Theme](r, av)

	r.Broadcast(palette("dark"))
	r.Broadcast(theme.Empty)

	assert.Equal(t, []string{"dark"}, pv.received)
	assert.Empty(t, cv.received, "stylesheet subscriber never sees palettes")
	assert.Equal(t, []string{"dark", theme.EmptyName}, av.received)
	assert.Equal(t, 3, r.Len(), "mismatch does not unregister")
}

func TestBroadcast_NilTheme(t *testing.T) {
	r := New(Options{})
	av := &anyView{}
	Register[theme.Theme](r, av)

	r.Broadcast(nil)
	assert.Equal(t, []string{theme.EmptyName}, av.received)
}

func TestBroadcast_UnregisterDuringBroadcast(t *testing.T) {
	r := New(Options{})
	a := &paletteView{}
	b := &paletteView{}
	a.onUpdate = func(*theme.Palette) { b.Unsubscribe() }
	b.onUpdate = func(*theme.Palette) { a.Unsubscribe() }
	Register[*theme.Palette](r, a)
	Register[*theme.Palette](r, b)

	r.Broadcast(palette("dark"))

	assert.Equal(t, 1, len(a.received)+len(b.received),
		"whichever runs first removes the other before it is delivered")
	assert.Equal(t, 1, r.Len())
}

func TestBroadcast_RegisterDuringBroadcast(t *testing.T) {
	r := New(Options{})
	late := &paletteView{}
	host := &paletteView{}
	host.onUpdate = func(*theme.Palette) { Register[*theme.Palette](r, late) }
	Register[*theme.Palette](r, host)

	r.Broadcast(palette("first"))
	assert.Empty(t, late.received, "not part of the running broadcast")

	r.Broadcast(palette("second"))
	assert.Equal(t, []string{"second"}, late.received)
	assert.Equal(t, []string{"first", "second"}, host.received)
}

func TestDeadEntry_PurgedOnBroadcast(t *testing.T) {
	r := New(Options{})
	keep := &paletteView{}
	Register[*theme.Palette](r, keep)

	count := 0
	id := registerDetached(r, &count)
	r.Broadcast(palette("before"))
	require.Equal(t, 1, count)

	collect(t, r, id)
	r.Broadcast(palette("after"))

	assert.Equal(t, 1, count, "collected subscriber receives nothing")
	assert.Equal(t, 1, r.Len(), "dead entry purged")
	assert.Equal(t, []string{"before", "after"}, keep.received)
}

func TestDeadEntry_PurgedOnRegister(t *testing.T) {
	r := New(Options{})

	count := 0
	id := registerDetached(r, &count)
	collect(t, r, id)
	require.Equal(t, 1, r.Len(), "entry lingers until the next pass")

	v := &paletteView{}
	Register[*theme.Palette](r, v)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []ID{v.SubscriberID()}, r.IDs())
}

func TestLiveness_ClosedSubscriberPurged(t *testing.T) {
	r := New(Options{})
	v := &closableView{}
	id := Register[*theme.Palette](r, v)
	require.True(t, r.Contains(id))

	v.closed = true
	assert.False(t, r.Contains(id))

	r.Broadcast(palette("dark"))
	assert.Empty(t, v.received)
	assert.Equal(t, 0, r.Len())
	assert.False(t, v.SubscriberTag().Registered(), "tag cleared on purge")

	// Reopened subscribers can register again
	v.closed = false
	newID := Register[*theme.Palette](r, v)
	assert.NotZero(t, newID)
	assert.True(t, r.Contains(newID))
}

func TestPurge_Count(t *testing.T) {
	r := New(Options{})
	a := &closableView{}
	b := &closableView{}
	Register[*theme.Palette](r, a)
	Register[*theme.Palette](r, b)

	a.closed = true
	assert.Equal(t, 1, r.Purge())
	assert.Equal(t, 0, r.Purge())
	assert.Equal(t, 1, r.Len())
}

func TestIDReuseAfterFree(t *testing.T) {
	r := New(Options{})
	others := []*paletteView{{}, {}, {}}
	for _, o := range others {
		Register[*theme.Palette](r, o)
	}

	x := &paletteView{}
	k := Register[*theme.Palette](r, x)
	r.Unregister(x.SubscriberTag())

	y := &paletteView{}
	yID := Register[*theme.Palette](r, y)

	for _, o := range others {
		assert.NotEqual(t, o.SubscriberID(), yID)
	}
	assert.True(t, r.Contains(yID))
	assert.False(t, r.Contains(k) && k != yID)
	assert.Len(t, r.IDs(), 4)
}

func TestAllocate_SkipsLiveAndReusesStale(t *testing.T) {
	r := New(Options{})
	stale := &closableView{}
	live := &paletteView{}
	staleID := Register[*theme.Palette](r, stale)
	liveID := Register[*theme.Palette](r, live)
	require.Equal(t, ID(1), staleID)
	require.Equal(t, ID(2), liveID)

	stale.closed = true
	r.lastID = 0

	assert.Equal(t, staleID, r.allocate(), "stale slot is freed and reused")
	assert.False(t, stale.SubscriberTag().Registered())
	assert.Equal(t, ID(3), r.allocate(), "live slot is skipped")
	assert.True(t, r.Contains(liveID))
}

func TestDeliver_AnimationSettings(t *testing.T) {
	runner := &recordingRunner{}
	r := New(Options{
		Runner:    runner,
		Animation: transition.Settings{Enabled: true, Duration: 200 * time.Millisecond},
	})
	eager := &paletteView{}
	calm := &calmView{}
	Register[*theme.Palette](r, eager)
	Register[*theme.Palette](r, calm)

	assert.True(t, r.Deliver(eager.SubscriberTag(), palette("a")))
	assert.True(t, r.Deliver(calm.SubscriberTag(), palette("a")))
	require.Len(t, runner.calls, 2)
	assert.Equal(t, runCall{animated: true, duration: 200 * time.Millisecond}, runner.calls[0])
	assert.False(t, runner.calls[1].animated, "subscriber preference wins")

	r.SetAnimation(transition.Settings{Enabled: false, Duration: time.Second})
	assert.Equal(t, transition.Settings{Enabled: false, Duration: time.Second}, r.Animation())
	r.Deliver(eager.SubscriberTag(), palette("b"))
	require.Len(t, runner.calls, 3)
	assert.False(t, runner.calls[2].animated)

	assert.Equal(t, []string{"a", "b"}, eager.received)
}

func TestDeliver_MismatchSkipsRunner(t *testing.T) {
	runner := &recordingRunner{}
	r := New(Options{Runner: runner})
	cv := &cssView{}
	Register[*theme.Stylesheet](r, cv)

	assert.False(t, r.Deliver(cv.SubscriberTag(), palette("dark")))
	assert.Empty(t, runner.calls)
}

func TestDeliver_Unregistered(t *testing.T) {
	r := New(Options{})
	v := &paletteView{}

	assert.False(t, r.Deliver(v.SubscriberTag(), palette("dark")))
	assert.False(t, r.Deliver(nil, palette("dark")))

	other := New(Options{})
	Register[*theme.Palette](other, v)
	assert.False(t, r.Deliver(v.SubscriberTag(), palette("dark")), "tag belongs to another registry")
	assert.Empty(t, v.received)
}
