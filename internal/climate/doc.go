// Package climate derives seasonal temperature baselines from historical
// observations and uses them to flag anomalies and judge live readings.
//
// Everything here is a pure function over caller-owned data: no I/O, no
// shared state. Seasons follow the northern-hemisphere convention and are
// assigned from the UTC calendar month only.
package climate
