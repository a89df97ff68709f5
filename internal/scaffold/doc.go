// Package scaffold runs the ordered pipeline that turns a validated project
// configuration into a generated, configured, formatted and committed
// project directory, then hands it to the developer's editor and browser.
//
// Each step is either required, aborting the run on failure, or optional,
// logged and skipped when it fails or when the capability it needs is
// missing. The single executor loop in Pipeline.Run owns that policy.
package scaffold
