package registry

import (
	"log/slog"
	"slices"
	"weak"

	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

// Options configures a Registry.
type Options struct {
	// Runner wraps every delivery. Defaults to transition.Immediate.
	Runner transition.Runner
	// Animation applies to deliveries made after it is set.
	Animation transition.Settings
	// Source supplies the theme for RequestImmediateUpdate. Defaults to
	// theme.Empty.
	Source func() theme.Theme
	Logger *slog.Logger
}

// Registry maps subscriber IDs to weak subscriber references.
type Registry struct {
	logger  *slog.Logger
	entries map[ID]weak.Pointer[Tag]
	lastID  ID

	runner    transition.Runner
	animation transition.Settings
	source    func() theme.Theme
}

// New creates an empty registry.
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Runner == nil {
		opts.Runner = transition.Immediate
	}
	return &Registry{
		logger:    opts.Logger,
		entries:   make(map[ID]weak.Pointer[Tag]),
		runner:    opts.Runner,
		animation: opts.Animation,
		source:    opts.Source,
	}
}

// Register adds s to r and returns its ID. Registering a subscriber that is
// already registered with r returns its existing ID. A subscriber bound to a
// different registry is moved to r.
func Register[T theme.Theme](r *Registry, s Subscriber[T]) ID {
	tag := s.SubscriberTag()
	if tag == nil {
		r.logger.Warn("subscriber has no tag, not registering")
		return 0
	}

	if tag.reg != nil {
		if tag.reg == r && r.owns(tag) {
			return tag.id
		}
		tag.reg.Unregister(tag)
	}

	prepare := func(th theme.Theme) (func(), bool) {
		typed, ok := th.(T)
		if !ok {
			return nil, false
		}
		return func() { s.UpdateAppearance(typed) }, true
	}

	var alive func() bool
	if l, ok := s.(Liveness); ok {
		alive = l.Alive
	}

	tag.bind(r, prepare, s.AnimationPreference, alive)
	return r.add(tag)
}

// add stores a bound tag under a fresh ID.
func (r *Registry) add(tag *Tag) ID {
	r.Purge()

	id := r.allocate()
	r.entries[id] = weak.Make(tag)
	tag.id = id

	r.logger.Debug("subscriber registered", "id", id, "subscribers", len(r.entries))
	return id
}

// allocate advances the counter until it reaches a value with no live entry.
// A stale entry found at the candidate value is dropped and its ID reused.
func (r *Registry) allocate() ID {
	for {
		r.lastID++
		if r.lastID == 0 {
			continue
		}
		ref, taken := r.entries[r.lastID]
		if !taken {
			return r.lastID
		}
		if _, live := r.resolve(r.lastID, ref); !live {
			r.drop(r.lastID, ref)
			return r.lastID
		}
	}
}

// resolve returns the tag behind ref if the entry is live.
func (r *Registry) resolve(id ID, ref weak.Pointer[Tag]) (*Tag, bool) {
	tag := ref.Value()
	if tag == nil || tag.reg != r || tag.id != id {
		return nil, false
	}
	if !tag.isAlive() {
		return tag, false
	}
	return tag, true
}

// drop removes an entry, clearing the tag if the subscriber still exists.
func (r *Registry) drop(id ID, ref weak.Pointer[Tag]) {
	delete(r.entries, id)
	if tag := ref.Value(); tag != nil && tag.reg == r && tag.id == id {
		tag.reset()
	}
}

// Purge removes every dead entry and returns how many were removed.
func (r *Registry) Purge() int {
	removed := 0
	for id, ref := range r.entries {
		if _, live := r.resolve(id, ref); !live {
			r.drop(id, ref)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("purged dead subscribers", "removed", removed, "subscribers", len(r.entries))
	}
	return removed
}

// Unregister removes the subscriber owning tag. No-op if absent.
func (r *Registry) Unregister(tag *Tag) {
	if tag == nil || tag.reg != r {
		return
	}
	if ref, ok := r.entries[tag.id]; ok && ref.Value() == tag {
		delete(r.entries, tag.id)
		r.logger.Debug("subscriber unregistered", "id", tag.id)
	}
	tag.reset()
}

// UnregisterID removes the entry for id. No-op if absent.
func (r *Registry) UnregisterID(id ID) {
	ref, ok := r.entries[id]
	if !ok {
		return
	}
	r.drop(id, ref)
	r.logger.Debug("subscriber unregistered", "id", id)
}

// Broadcast delivers th to every live subscriber. Dead entries are purged
// first and the set of recipients is fixed when the call starts:
// subscribers registered by an update hook wait for the next broadcast,
// and subscribers unregistered by an update hook are skipped.
func (r *Registry) Broadcast(th theme.Theme) {
	if th == nil {
		th = theme.Empty
	}
	r.Purge()

	type pending struct {
		id  ID
		ref weak.Pointer[Tag]
	}
	snapshot := make([]pending, 0, len(r.entries))
	for id, ref := range r.entries {
		snapshot = append(snapshot, pending{id: id, ref: ref})
	}

	delivered := 0
	for _, p := range snapshot {
		if current, ok := r.entries[p.id]; !ok || current != p.ref {
			continue
		}
		tag, live := r.resolve(p.id, p.ref)
		if !live {
			continue
		}
		if r.Deliver(tag, th) {
			delivered++
		}
	}

	r.logger.Debug("broadcast theme", "theme", th.Name(), "recipients", len(snapshot), "delivered", delivered)
}

// Deliver routes th to one subscriber through the transition runner.
// It returns false, without calling the subscriber, when the subscriber is
// not registered or does not accept th's kind.
func (r *Registry) Deliver(tag *Tag, th theme.Theme) bool {
	if tag == nil || tag.reg != r || tag.prepare == nil || th == nil {
		return false
	}

	apply, ok := tag.prepare(th)
	if !ok {
		r.logger.Debug("skipped update for subscriber", "id", tag.id, "theme", th.Name(), "kind", theme.Kind(th))
		return false
	}

	animated := r.animation.Animates(tag.prefersAnimation())
	r.runner.Run(animated, r.animation.Duration, apply)
	return true
}

// SetAnimation changes the transition settings for future deliveries.
func (r *Registry) SetAnimation(s transition.Settings) {
	r.animation = s
}

// Animation returns the current transition settings.
func (r *Registry) Animation() transition.Settings {
	return r.animation
}

// SetSource sets the theme supplier used by RequestImmediateUpdate.
func (r *Registry) SetSource(source func() theme.Theme) {
	r.source = source
}

func (r *Registry) current() theme.Theme {
	if r.source == nil {
		return theme.Empty
	}
	if th := r.source(); th != nil {
		return th
	}
	return theme.Empty
}

// Len returns the number of entries, including dead entries not yet purged.
func (r *Registry) Len() int {
	return len(r.entries)
}

// owns reports whether tag itself holds a live entry in r. A copied
// subscriber carries the original's ID but a different tag.
func (r *Registry) owns(tag *Tag) bool {
	ref, ok := r.entries[tag.id]
	if !ok || ref.Value() != tag {
		return false
	}
	_, live := r.resolve(tag.id, ref)
	return live
}

// Contains reports whether id is bound to a live subscriber.
func (r *Registry) Contains(id ID) bool {
	ref, ok := r.entries[id]
	if !ok {
		return false
	}
	_, live := r.resolve(id, ref)
	return live
}

// IDs returns the IDs of all live subscribers in ascending order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.entries))
	for id, ref := range r.entries {
		if _, live := r.resolve(id, ref); live {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
