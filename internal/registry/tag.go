package registry

import (
	"github.com/jmylchreest/themecast/internal/theme"
)

// ID identifies a registered subscriber. Zero means not registered.
type ID uint64

// Subscriber is a component that wants theme updates of kind T.
// Deliveries of any other kind are skipped.
type Subscriber[T theme.Theme] interface {
	SubscriberTag() *Tag
	UpdateAppearance(T)
	AnimationPreference() bool
}

// Liveness is implemented by subscribers whose owner can destroy them while
// they are still referenced. A subscriber reporting false is treated as
// dead.
type Liveness interface {
	Alive() bool
}

// Tag is the per-subscriber registration record. It lives inside the
// subscriber, so the registry can reach the subscriber through a weak
// pointer to its tag without owning it.
type Tag struct {
	id       ID
	reg      *Registry
	prepare  func(theme.Theme) (apply func(), ok bool)
	animates func() bool
	alive    func() bool
}

// ID returns the subscriber's current ID, or zero if not registered.
func (t *Tag) ID() ID {
	return t.id
}

// Registered reports whether the tag is bound to a registry.
func (t *Tag) Registered() bool {
	return t.id != 0 && t.reg != nil
}

// Unsubscribe removes the subscriber from its registry. Safe to repeat.
func (t *Tag) Unsubscribe() {
	if t.reg != nil {
		t.reg.Unregister(t)
	}
}

// RequestImmediateUpdate delivers the registry's current theme to this
// subscriber only. No-op when not registered.
func (t *Tag) RequestImmediateUpdate() {
	if t.reg != nil {
		t.reg.Deliver(t, t.reg.current())
	}
}

func (t *Tag) bind(r *Registry, prepare func(theme.Theme) (func(), bool), animates, alive func() bool) {
	t.reg = r
	t.prepare = prepare
	t.animates = animates
	t.alive = alive
}

func (t *Tag) reset() {
	*t = Tag{}
}

func (t *Tag) isAlive() bool {
	return t.alive == nil || t.alive()
}

func (t *Tag) prefersAnimation() bool {
	return t.animates == nil || t.animates()
}

// Base is embedded by subscribers to provide the tag, the default animation
// preference and the lifecycle forwarders.
type Base struct {
	tag Tag
}

// SubscriberTag returns the embedded tag.
func (b *Base) SubscriberTag() *Tag {
	return &b.tag
}

// AnimationPreference defaults to true.
func (b *Base) AnimationPreference() bool {
	return true
}

// SubscriberID returns the current subscriber ID.
func (b *Base) SubscriberID() ID {
	return b.tag.ID()
}

// Unsubscribe forwards to the registry.
func (b *Base) Unsubscribe() {
	b.tag.Unsubscribe()
}

// RequestImmediateUpdate forwards to the registry.
func (b *Base) RequestImmediateUpdate() {
	b.tag.RequestImmediateUpdate()
}
