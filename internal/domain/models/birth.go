package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"HashClock/pkg/util"
)

// BirthInput is the raw, unvalidated birth data as received at a boundary.
type BirthInput struct {
	Date             string
	Time             string // optional, empty means unknown
	Latitude         *float64
	Longitude        *float64
	Timezone         string // optional IANA name
	UTCOffsetMinutes *int   // optional, used when Timezone is empty
}

// BirthMoment is a validated birth instant and place. The zero value is not usable;
// construct with NewBirthMoment.
type BirthMoment struct {
	year       int
	month      time.Month
	day        int
	hour       int
	minute     int
	second     int
	timeKnown  bool
	lat        *float64
	lon        *float64
	loc        *time.Location
	zoneSource string
	instant    time.Time
}

const (
	ZoneExplicit  = "explicit"
	ZoneOffset    = "offset"
	ZoneLongitude = "longitude"
	ZoneUTC       = "utc"
)

// NewBirthMoment validates in and resolves it to a single absolute instant.
// A missing time defaults to local noon and is recorded as unknown.
func NewBirthMoment(in BirthInput) (BirthMoment, error) {
	var m BirthMoment
	if strings.TrimSpace(in.Date) == "" {
		return m, fmt.Errorf("%w: birthDate is required", ErrInvalidInput)
	}
	y, mo, d, err := util.ParseCivilDate(in.Date)
	if err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	m.year, m.month, m.day = y, mo, d

	m.hour = 12
	if strings.TrimSpace(in.Time) != "" {
		h, mi, s, err := util.ParseClock(in.Time)
		if err != nil {
			return BirthMoment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		m.hour, m.minute, m.second = h, mi, s
		m.timeKnown = true
	}

	if in.Latitude != nil {
		lat := *in.Latitude
		if math.IsNaN(lat) || lat < -90 || lat > 90 {
			return BirthMoment{}, fmt.Errorf("%w: latitude %v outside [-90,90]", ErrInvalidInput, lat)
		}
		m.lat = &lat
	}
	if in.Longitude != nil {
		lon := *in.Longitude
		if math.IsNaN(lon) || lon < -180 || lon > 180 {
			return BirthMoment{}, fmt.Errorf("%w: longitude %v outside [-180,180]", ErrInvalidInput, lon)
		}
		m.lon = &lon
	}

	switch {
	case strings.TrimSpace(in.Timezone) != "":
		loc, err := time.LoadLocation(strings.TrimSpace(in.Timezone))
		if err != nil {
			return BirthMoment{}, fmt.Errorf("%w: timezone %q: %v", ErrInvalidInput, in.Timezone, err)
		}
		m.loc, m.zoneSource = loc, ZoneExplicit
	case in.UTCOffsetMinutes != nil:
		off := *in.UTCOffsetMinutes
		if off < -14*60 || off > 14*60 {
			return BirthMoment{}, fmt.Errorf("%w: utc offset %d minutes out of range", ErrInvalidInput, off)
		}
		m.loc, m.zoneSource = util.OffsetZone(off), ZoneOffset
	case m.lon != nil:
		m.loc, m.zoneSource = util.LongitudeZone(*m.lon), ZoneLongitude
	default:
		m.loc, m.zoneSource = time.UTC, ZoneUTC
	}

	m.instant = time.Date(y, mo, d, m.hour, m.minute, m.second, 0, m.loc).UTC()
	return m, nil
}

// Instant is the resolved absolute time in UTC.
func (m BirthMoment) Instant() time.Time { return m.instant }

// Local is the civil wall time in the resolved zone.
func (m BirthMoment) Local() time.Time { return m.instant.In(m.loc) }

func (m BirthMoment) Date() (int, time.Month, int) { return m.year, m.month, m.day }

func (m BirthMoment) Clock() (int, int, int) { return m.hour, m.minute, m.second }

func (m BirthMoment) TimeKnown() bool { return m.timeKnown }

// Latitude returns a copy of the latitude, nil when absent.
func (m BirthMoment) Latitude() *float64 { return copyFloat(m.lat) }

// Longitude returns a copy of the longitude, nil when absent.
func (m BirthMoment) Longitude() *float64 { return copyFloat(m.lon) }

func (m BirthMoment) HasCoordinates() bool { return m.lat != nil && m.lon != nil }

func (m BirthMoment) Location() *time.Location { return m.loc }

// ZoneSource tells how the zone was chosen: explicit, offset, longitude or utc.
func (m BirthMoment) ZoneSource() string { return m.zoneSource }

// CacheKey is a canonical string for the moment, stable across equal inputs.
// The zone and civil reading are part of it since the response decorations
// depend on them, not just the instant.
func (m BirthMoment) CacheKey() string {
	coord := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprintf("%.6f", *p)
	}
	zone := "UTC"
	if m.loc != nil {
		zone = m.loc.String()
	}
	return fmt.Sprintf("%s|%t|%s|%s|%s|%s|%04d-%02d-%02dT%02d:%02d:%02d",
		m.instant.Format(time.RFC3339), m.timeKnown, coord(m.lat), coord(m.lon),
		zone, m.zoneSource, m.year, int(m.month), m.day, m.hour, m.minute, m.second)
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
