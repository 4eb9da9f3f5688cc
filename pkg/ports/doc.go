/*
Package ports defines the driven ports (interfaces) of the Abacus calculator.

These interfaces decouple the key-press engine from external implementations,
allowing sessions to live in memory, on disk or in Redis, and letting any
number of observers follow state changes.

# Key Interfaces

  - StateStore: persists and loads session State.
  - DistributedLocker: serialises access to a session across replicas.
  - Observer: receives the StateDiff produced by every key press.
*/
package ports
