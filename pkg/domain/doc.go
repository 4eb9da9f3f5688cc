/*
Package domain contains the core domain models of the Abacus calculator.

It defines the session state a calculator keypad operates on, the closed key
vocabulary a presentation layer may emit, and the events observers receive.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - State: the snapshot of one session (equation, result preview, angle mode, last result, status).
  - Key: an entry of the keypad vocabulary (digits, operators, functions, constants and controls).
  - StateDiff: the partial update pushed to observers after a key press.
  - LifecycleHooks: callbacks fired by the engine for logging and metrics.
*/
package domain
