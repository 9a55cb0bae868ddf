package dashboard

import "errors"

// Local precondition failures. None of these reach the network.
var (
	ErrEmptyUserID       = errors.New("enter a user id first")
	ErrNotVerified       = errors.New("verify a user id first")
	ErrNoVehicleSelected = errors.New("please select a vehicle first")
	ErrInvalidTelemetry  = errors.New("invalid telemetry")
	ErrInvalidVehicle    = errors.New("invalid vehicle details")
	ErrUnknownVehicle    = errors.New("vehicle is not in the loaded list")
	ErrUnknownView       = errors.New("unknown view")
	ErrUnknownField      = errors.New("unknown form field")
)
