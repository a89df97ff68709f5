// Package runtime runs external tools and locates the Node.js toolchain they
// depend on. Every process the CLI spawns goes through a Runner so the
// pipeline can be exercised with a fake in tests.
package runtime
