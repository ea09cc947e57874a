//go:build race

package filament

// sync.Pool drops items deliberately when the race detector is on, so
// reuse-rate assertions are meaningless under -race.
const raceEnabled = true
