// Package aggregates declares the write boundaries of the lesson domain.
//
// A boundary here is an interface plus a Contract: the lesson graph aggregate is the only
// way to change prerequisite edges, lesson sequences or lesson status, and every such
// change either commits whole or reports a typed *Error.
package aggregates
