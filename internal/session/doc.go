// Package session sequences word pairs for a practice session.
//
// The state machine is a pure function, Reduce, over an explicit State.
// A Sequencer owns one State and performs the side effects (asking the
// generator for pairs, synthesizing audio). It never sleeps: a Driver
// goroutine advances it once per tick and serializes user commands with
// those ticks, so a pause or stop always lands between two transitions.
//
//	Idle -> Preview -> Present -> (Preview | Idle)
//
// On-demand sessions add an Awaiting phase while a valid pair is being
// requested. The pair on screen does not change while awaiting.
package session
