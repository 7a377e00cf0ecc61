package errcode

import (
	"errors"

	"powermon-go/drivers/ina3221"
)

// Code is a stable, bus-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK             Code = "ok"
	Busy           Code = "busy"
	Unsupported    Code = "unsupported"
	InvalidParams  Code = "invalid_params"
	InvalidPayload Code = "invalid_payload"
	InvalidTopic   Code = "invalid_topic"
	Timeout        Code = "timeout"

	// Two-wire bus failure classes, mirroring the driver's transport kinds.
	ArbitrationLost Code = "arbitration_lost"
	NoAcknowledge   Code = "no_ack"
	BusFault        Code = "bus_fault"
	Overrun         Code = "overrun"
	BusError        Code = "bus_error"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// MapDriverErr maps low-level driver errors to a Code. Transport failures
// keep their bus classification; everything else is the generic fallback.
func MapDriverErr(err error) Code {
	if err == nil {
		return OK
	}
	var de *ina3221.Error
	if errors.As(err, &de) && de.Class == ina3221.ClassTransport {
		switch de.Kind {
		case ina3221.BusErrArbitrationLost:
			return ArbitrationLost
		case ina3221.BusErrNoAcknowledge:
			return NoAcknowledge
		case ina3221.BusErrBusFault:
			return BusFault
		case ina3221.BusErrOverrun:
			return Overrun
		default:
			return BusError
		}
	}
	return Error
}
