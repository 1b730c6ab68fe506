// Package timethings keeps two frontmatter fields of Markdown notes current
// while they are edited: a last-modified timestamp and an accumulated edit
// duration in seconds.
//
// Edits reach the tracker as activity events. In line mode, key releases
// rewrite header lines in place; the timestamp is only replaced when it
// already exists and matches the configured format, and the duration is
// only incremented when its line exists. In structured mode, file saves run
// a read-modify-write transaction over the parsed header; the timestamp is
// refreshed once the update interval has passed and the duration field is
// created on first use. A per-note cooldown keeps bursts of events from
// inflating the duration.
//
// Usage:
//
//	app, err := timethings.New("./notes",
//		timethings.WithLogger(logger),
//	)
//
//	// Dispatch saves until ctx is done
//	err = app.Watch(ctx)
package timethings
