package main

import (
	"time"
)

var _ TickerClocker = (*Clock)(nil) // ensure Clock implements TickerClocker

// Clocker is an interface for getting current real time.
type Clocker interface {
	Now() time.Time
}

// TickerClocker also provides tickers. It satisfies zapcore.Clock so the
// logger and the handlers share the same time source.
type TickerClocker interface {
	Clocker
	NewTicker(time.Duration) *time.Ticker
}

// Clock reads the wall clock in UTC for production and in local time otherwise.
type Clock struct {
	tz *time.Location
}

func NewClock(isProd bool) *Clock {
	if isProd {
		return &Clock{time.UTC}
	}
	return &Clock{time.Local}
}

func (ck *Clock) Now() time.Time {
	return time.Now().In(ck.tz)
}

func (ck *Clock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}
