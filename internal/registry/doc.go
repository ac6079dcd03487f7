// Package registry tracks theme subscribers and broadcasts theme changes to
// them.
//
// The registry never keeps a subscriber alive. Each entry holds a weak
// pointer to the subscriber's Tag; once every other owner drops the
// subscriber, the entry is dead and is purged before the next broadcast or
// registration. Subscribers may also report themselves dead early by
// implementing Liveness.
//
// A Registry is confined to a single goroutine, normally the UI loop. It
// provides no locking. Use one registry per application.
package registry
