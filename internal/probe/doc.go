// Package probe detects which optional desktop integrations (editor,
// browser, window manager, GitHub CLI) are usable on this machine.
//
// Each capability has an ordered strategy table: a PATH lookup of the
// canonical binary first, then alternate binary names and well-known install
// locations for the current OS. Probing never fails; anything that cannot be
// found or checked is simply unavailable.
package probe
