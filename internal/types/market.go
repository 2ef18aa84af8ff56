package types

import "time"

// TimestampLayout is the layout used for timestamps in every artifact.
// UTC times render with a "+00:00" offset.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Bar is one minute of OHLCV data for a symbol. Bars are produced by the
// datasource, floored to the minute and immutable afterwards.
type Bar struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
