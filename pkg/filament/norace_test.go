//go:build !race

package filament

const raceEnabled = false
