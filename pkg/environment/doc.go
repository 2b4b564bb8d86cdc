// Package environment provides host implementations of sampler.Environment.
//
//   - Terminal reads the controlling terminal's size and reacts to SIGWINCH
//     (polling on platforms without it).
//   - File reads a size from a file and reloads it when the file changes.
//   - Manual is driven by the caller; bubbletea hosts and tests use it to
//     inject samples.
//   - Static and Unavailable are fixed environments for tests and fallbacks.
package environment
