package models

import "strings"

// Body identifies a tracked celestial body.
type Body string

const (
	Sun     Body = "Sun"
	Moon    Body = "Moon"
	Mercury Body = "Mercury"
	Venus   Body = "Venus"
	Mars    Body = "Mars"
	Jupiter Body = "Jupiter"
	Saturn  Body = "Saturn"
	Uranus  Body = "Uranus"
	Neptune Body = "Neptune"
	Pluto   Body = "Pluto"
)

// Bodies is the fixed body ordering. Aspect pairs are enumerated in this order.
var Bodies = []Body{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}

// IsKnown reports whether b is part of the fixed body list.
func (b Body) IsKnown() bool {
	for _, k := range Bodies {
		if k == b {
			return true
		}
	}
	return false
}

// Key is the lower-case name used in JSON maps ("sun", "moon", ...).
func (b Body) Key() string { return strings.ToLower(string(b)) }

// ParseBody accepts either the display name or the lower-case key.
func ParseBody(s string) (Body, bool) {
	for _, k := range Bodies {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, true
		}
	}
	return "", false
}

// CelestialLongitude pairs a body with its geocentric ecliptic longitude in [0,360).
type CelestialLongitude struct {
	Body      Body
	Longitude float64
}

// Strategy names the computation that produced a set of longitudes.
type Strategy string

const (
	StrategyEphemeris  Strategy = "ephemeris"
	StrategySimplified Strategy = "simplified"
	StrategyRemote     Strategy = "remote"
)

func (s Strategy) Valid() bool {
	switch s {
	case StrategyEphemeris, StrategySimplified, StrategyRemote:
		return true
	}
	return false
}
