package config

import (
	"strconv"
	"strings"
)

// DefaultPower is used whenever the power argument is missing or unparsable.
const DefaultPower = 3

// Environment keys.
const (
	EnvPower       = "CLACK_POWER"
	EnvMaxEvents   = "CLACK_MAX_EVENTS"
	EnvTimeDivisor = "CLACK_TIME_DIVISOR"
	EnvLogLevel    = "LOG_LEVEL"
)

// ParsePower parses s as the mass exponent. Anything that is not a
// non-negative integer falls back to DefaultPower.
func ParsePower(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return DefaultPower
	}
	return n
}

// PowerFromArgs takes the power from the last positional argument. ok is
// false when there are no arguments, so the caller can prompt instead.
func PowerFromArgs(args []string) (power int, ok bool) {
	if len(args) == 0 {
		return DefaultPower, false
	}
	return ParsePower(args[len(args)-1]), true
}

// DefaultEnvPower returns CLACK_POWER parsed with ParsePower.
func DefaultEnvPower() int {
	return ParsePower(GetEnv(EnvPower, strconv.Itoa(DefaultPower)))
}
