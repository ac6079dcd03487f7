// Package portal reads and watches the desktop colour scheme preference
// published by the XDG desktop portal (org.freedesktop.portal.Settings,
// namespace org.freedesktop.appearance, key color-scheme).
package portal
