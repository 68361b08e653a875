/*
Package operators implements higher-level building blocks on top of the
engine package: one-shots, timed waits, predicate verification,
watchdogs, join/barrier primitives, exception handling, and chain
enable/disable orchestration.

Each operator is a free-standing constructor that takes an *engine.Engine
and adds one element to the chain currently being defined via the engine's
public builder surface (engine.AddElement): there is no operator base
type or shared inheritance, only shared closures over small per-operator
state structs.

Operators are meant to be called between engine.DefineChain and
engine.EndChain, exactly like a hand-written element would be.
*/
package operators
