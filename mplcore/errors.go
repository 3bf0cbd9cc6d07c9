package mplcore

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidOwner    = errors.New("account is not owned by the core program")
	ErrUnexpectedKey   = errors.New("unexpected account key")
)

// Error is a custom error returned by the core program.
type Error struct {
	Code uint32
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("mpl-core %s (%d): %s", e.Name, e.Code, e.Msg)
}

var (
	ErrIncorrectAccount     = &Error{Code: 6, Name: "IncorrectAccount", Msg: "Incorrect account"}
	ErrInvalidAuthority     = &Error{Code: 9, Name: "InvalidAuthority", Msg: "Invalid authority"}
	ErrInvalidCollection    = &Error{Code: 19, Name: "InvalidCollection", Msg: "Invalid collection, incorrect collection account"}
	ErrMissingNewOwner      = &Error{Code: 21, Name: "MissingNewOwner", Msg: "Missing new owner"}
	ErrInvalidAsset         = &Error{Code: 24, Name: "InvalidAsset", Msg: "Invalid Asset passed in"}
	ErrMissingCollection    = &Error{Code: 25, Name: "MissingCollection", Msg: "Missing collection"}
	ErrNoApprovals          = &Error{Code: 26, Name: "NoApprovals", Msg: "Neither the asset or any plugins have approved this operation"}
	ErrConflictingAuthority = &Error{Code: 29, Name: "ConflictingAuthority", Msg: "Conflicting Authority"}
)

var errorsByCode = map[uint32]*Error{}

func init() {
	for _, e := range []*Error{
		ErrIncorrectAccount,
		ErrInvalidAuthority,
		ErrInvalidCollection,
		ErrMissingNewOwner,
		ErrInvalidAsset,
		ErrMissingCollection,
		ErrNoApprovals,
		ErrConflictingAuthority,
	} {
		errorsByCode[e.Code] = e
	}
}

func ErrorFromCode(code uint32) (*Error, bool) {
	e, ok := errorsByCode[code]
	return e, ok
}
