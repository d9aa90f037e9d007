// Package libraries is a placeholder for builtin script libraries
// (math, time, string helpers). None are implemented: the core ships
// with no builtin-library subsystem. A host that wants to expose such
// functionality does so through engine.WithGlobal instead.
package libraries
