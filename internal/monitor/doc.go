// Package monitor implements the refresh pipeline behind the pilots table.
//
// Each cycle fetches the live pilot set, keeps the pilots within range of the
// airport, resolves every pilot's network hours (from the ExperienceCache or,
// on a miss, concurrently from the ratings API), and sorts the result.
// A Board carries the rows and the user's selection from one cycle to the
// next. The selection is re-anchored by pilot identity, so the highlighted
// pilot stays highlighted when the table reorders.
//
// The Scheduler runs cycles on a fixed period and delivers results over a
// channel. Renderers apply them to their Board on their own event loop, so
// key presses never wait on the network.
package monitor
