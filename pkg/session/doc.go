/*
Package session serialises access to calculator sessions.

Key presses on one session must be applied one at a time: each press loads the
state, runs it through the engine and saves the result. The Manager guards that
read-modify-write cycle with a reference-counted in-process lock per session
and, when configured, a distributed lock shared by every replica using the same
store.
*/
package session
