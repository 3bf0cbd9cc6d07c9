package program

import (
	"errors"
	"fmt"
)

// Error is a custom error code returned by the program or by the Anchor framework on its behalf.
type Error struct {
	Code uint32
	Name string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Msg)
}

var (
	ErrCollectionIsNotCreated = &Error{Code: 6000, Name: "CollectionIsNotCreated", Msg: "Collection is not created"}
	ErrWrongCollection        = &Error{Code: 6001, Name: "WrongCollection", Msg: "Wrong Collection"}
)

// anchor framework errors
var (
	ErrConstraintMut                = &Error{Code: 2000, Name: "ConstraintMut", Msg: "A mut constraint was violated"}
	ErrConstraintSeeds              = &Error{Code: 2006, Name: "ConstraintSeeds", Msg: "A seeds constraint was violated"}
	ErrConstraintAddress            = &Error{Code: 2012, Name: "ConstraintAddress", Msg: "An address constraint was violated"}
	ErrAccountDiscriminatorNotFound = &Error{Code: 3001, Name: "AccountDiscriminatorNotFound", Msg: "No discriminator was found on the account"}
	ErrAccountDiscriminatorMismatch = &Error{Code: 3002, Name: "AccountDiscriminatorMismatch", Msg: "Account discriminator did not match what was expected"}
	ErrAccountDidNotDeserialize     = &Error{Code: 3003, Name: "AccountDidNotDeserialize", Msg: "Failed to deserialize the account"}
	ErrAccountOwnedByWrongProgram   = &Error{Code: 3007, Name: "AccountOwnedByWrongProgram", Msg: "The given account is owned by a different program than expected"}
	ErrAccountNotSigner             = &Error{Code: 3010, Name: "AccountNotSigner", Msg: "The given account did not sign"}
	ErrAccountNotInitialized        = &Error{Code: 3012, Name: "AccountNotInitialized", Msg: "The program expected this account to be already initialized"}
	ErrAccountNotEnoughKeys         = &Error{Code: 3005, Name: "AccountNotEnoughKeys", Msg: "Not enough account keys given to the instruction"}
	ErrInstructionDidNotDeserialize = &Error{Code: 102, Name: "InstructionDidNotDeserialize", Msg: "The program could not deserialize the given instruction"}
	ErrInstructionFallbackNotFound  = &Error{Code: 101, Name: "InstructionFallbackNotFound", Msg: "Fallback functions are not supported"}
	ErrInstructionMissing           = &Error{Code: 100, Name: "InstructionMissing", Msg: "8 byte instruction identifier not provided"}
)

var errorsByCode = map[uint32]*Error{}

func init() {
	for _, e := range []*Error{
		ErrCollectionIsNotCreated,
		ErrWrongCollection,
		ErrConstraintMut,
		ErrConstraintSeeds,
		ErrConstraintAddress,
		ErrAccountDiscriminatorNotFound,
		ErrAccountDiscriminatorMismatch,
		ErrAccountDidNotDeserialize,
		ErrAccountOwnedByWrongProgram,
		ErrAccountNotSigner,
		ErrAccountNotInitialized,
		ErrAccountNotEnoughKeys,
		ErrInstructionDidNotDeserialize,
		ErrInstructionFallbackNotFound,
		ErrInstructionMissing,
	} {
		errorsByCode[e.Code] = e
	}
}

func ErrorFromCode(code uint32) (*Error, bool) {
	e, ok := errorsByCode[code]
	return e, ok
}

// IsCode reports whether err carries the given program error code.
func IsCode(err error, code uint32) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
