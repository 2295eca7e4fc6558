// Package vatsim provides a client for the public VATSIM network APIs.
//
// Two endpoints are used: the load-balanced v3 live data feed (discovered
// through the status document) for the set of currently connected pilots,
// and the ratings API for a member's cumulative hours on the network.
package vatsim

import (
	"context"
	"time"

	"github.com/unklstewy/vatsim-online/pkg/coordinates"
)

// Pilot represents a pilot currently connected to the network.
// Values are snapshots of one live data feed and are never mutated.
type Pilot struct {
	// CID is the member's certificate ID, stable across sessions
	CID int `json:"cid"`

	// Name is the member's display name
	Name string `json:"name"`

	// Callsign is the callsign the pilot connected with (e.g., "SWA1234")
	Callsign string `json:"callsign"`

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64 `json:"longitude"`

	// Altitude in feet MSL
	Altitude int `json:"altitude"`

	// Groundspeed in knots
	Groundspeed int `json:"groundspeed"`

	// Heading in degrees (0-359)
	Heading int `json:"heading"`

	// Transponder is the squawk code as reported
	Transponder string `json:"transponder"`

	// FlightPlan is nil when the pilot has not filed
	FlightPlan *FlightPlan `json:"flight_plan"`

	// LogonTime is when the pilot connected
	LogonTime time.Time `json:"logon_time"`
}

// FlightPlan contains the fields of a filed flight plan used for display.
type FlightPlan struct {
	FlightRules   string `json:"flight_rules"`
	Aircraft      string `json:"aircraft"`
	AircraftFAA   string `json:"aircraft_faa"`
	AircraftShort string `json:"aircraft_short"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
}

// Aircraft returns the best available aircraft type label, preferring the
// FAA-format type over the short ICAO type. Returns "" when neither is known.
func (p Pilot) Aircraft() string {
	if p.FlightPlan == nil {
		return ""
	}
	if p.FlightPlan.AircraftFAA != "" {
		return p.FlightPlan.AircraftFAA
	}
	return p.FlightPlan.AircraftShort
}

// Position returns the pilot's reported position.
func (p Pilot) Position() coordinates.Geographic {
	return coordinates.Geographic{Latitude: p.Latitude, Longitude: p.Longitude}
}

// RatingTimes is a member's cumulative time on the network, in hours,
// broken down by position type and controller rating.
type RatingTimes struct {
	// Pilot is total hours connected as a pilot
	Pilot float64 `json:"pilot"`

	// ATC is total hours connected as a controller
	ATC float64 `json:"atc"`

	S1  float64 `json:"s1"`
	S2  float64 `json:"s2"`
	S3  float64 `json:"s3"`
	C1  float64 `json:"c1"`
	C3  float64 `json:"c3"`
	I1  float64 `json:"i1"`
	I3  float64 `json:"i3"`
	SUP float64 `json:"sup"`
	ADM float64 `json:"adm"`
}

// LiveDataSource returns the pilots currently connected to the network.
type LiveDataSource interface {
	GetOnlinePilots(ctx context.Context) ([]Pilot, error)
}

// RatingTimesSource returns a member's cumulative network time.
type RatingTimesSource interface {
	GetRatingTimes(ctx context.Context, cid int) (RatingTimes, error)
}
