package ina3221

import "errors"

// ErrInvalidChannel is returned when a Channel outside 1..3 is passed to a
// per-channel accessor.
var ErrInvalidChannel = errors.New("ina3221: invalid channel")

// BusErrorKind classifies a two-wire bus failure. Transports that can tell
// why a transaction failed implement BusError; anything else is wrapped as
// BusErrUnspecified.
type BusErrorKind uint8

const (
	BusErrUnspecified BusErrorKind = iota
	BusErrArbitrationLost
	BusErrNoAcknowledge
	BusErrBusFault
	BusErrOverrun
)

func (k BusErrorKind) String() string {
	switch k {
	case BusErrArbitrationLost:
		return "arbitration_lost"
	case BusErrNoAcknowledge:
		return "no_ack"
	case BusErrBusFault:
		return "bus_fault"
	case BusErrOverrun:
		return "overrun"
	default:
		return "unspecified"
	}
}

// BusError is the contract an I2C implementation may satisfy to have its
// failure classification carried through the driver error.
type BusError interface {
	error
	BusErrorKind() BusErrorKind
}

// Class separates transport failures from everything else. ClassOther is
// reserved for future non-bus failure causes and is currently returned by no
// operation.
type Class uint8

const (
	ClassTransport Class = iota
	ClassOther
)

// Error is the driver error type. Every failed bus transaction surfaces as a
// *Error with ClassTransport and the originating BusErrorKind; the underlying
// transport error is reachable via Unwrap.
type Error struct {
	Class Class
	Kind  BusErrorKind
	Err   error
}

func (e *Error) Error() string {
	if e.Class == ClassTransport {
		return "ina3221: bus " + e.Kind.String()
	}
	return "ina3221: error"
}

func (e *Error) Unwrap() error { return e.Err }

func wrapBus(err error) error {
	if err == nil {
		return nil
	}
	kind := BusErrUnspecified
	var be BusError
	if errors.As(err, &be) {
		kind = be.BusErrorKind()
	}
	return &Error{Class: ClassTransport, Kind: kind, Err: err}
}
