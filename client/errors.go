package client

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/goccy/go-json"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
)

// ErrAccountAlreadyInUse is the system program's response to initialising an existing account.
var ErrAccountAlreadyInUse = errors.New("account already in use")

// ProgramError is a custom error raised by a program while executing an instruction.
type ProgramError struct {
	Program          solana.PublicKey
	InstructionIndex int
	Code             uint32
	Name             string
	Message          string
	Logs             []string
}

func (e *ProgramError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("instruction %d: program %s failed with custom error %d", e.InstructionIndex, e.Program, e.Code)
	}
	return fmt.Sprintf("instruction %d: %s (%d): %s", e.InstructionIndex, e.Name, e.Code, e.Message)
}

// Is matches program.Error and mplcore.Error values by code and originating program.
func (e *ProgramError) Is(target error) bool {
	switch t := target.(type) {
	case *program.Error:
		return !e.Program.Equals(mplcore.ProgramID) && !e.Program.Equals(solana.SystemProgramID) && t.Code == e.Code
	case *mplcore.Error:
		return e.Program.Equals(mplcore.ProgramID) && t.Code == e.Code
	}
	return target == ErrAccountAlreadyInUse && e.Program.Equals(solana.SystemProgramID) && e.Code == 0
}

// InstructionError is a builtin (non-custom) instruction failure such as MissingRequiredSignature.
type InstructionError struct {
	InstructionIndex int
	Kind             string
}

func (e *InstructionError) Error() string {
	return fmt.Sprintf("instruction %d failed: %s", e.InstructionIndex, e.Kind)
}

// failureLabel names a decoded instruction failure for metrics.
func failureLabel(err error) string {
	var perr *ProgramError
	if errors.As(err, &perr) {
		if perr.Name != "" {
			return perr.Name
		}
		return fmt.Sprintf("custom_%d", perr.Code)
	}
	var ierr *InstructionError
	if errors.As(err, &ierr) {
		return ierr.Kind
	}
	return "unknown"
}

var failedLogRe = regexp.MustCompile(`^Program (\w+) failed: (.*)$`)

// programErrorFromRPC extracts the instruction failure carried by a preflight RPC error.
func programErrorFromRPC(err error) error {
	var rpcErr *jsonrpc.RPCError
	if !errors.As(err, &rpcErr) {
		return nil
	}
	data, ok := rpcErr.Data.(map[string]any)
	if !ok {
		return nil
	}
	return decodeTransactionError(data["err"], logsFromAny(data["logs"]))
}

func transactionErrorFromStatus(v any) error {
	if err := decodeTransactionError(v, nil); err != nil {
		return err
	}
	b, _ := json.Marshal(v)
	return errors.New(string(b))
}

func decodeTransactionError(v any, logs []string) error {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	parts, ok := m["InstructionError"].([]any)
	if !ok || len(parts) != 2 {
		return nil
	}
	idx, ok := toInt64(parts[0])
	if !ok {
		return nil
	}

	switch detail := parts[1].(type) {
	case string:
		return &InstructionError{InstructionIndex: int(idx), Kind: detail}
	case map[string]any:
		code, ok := toInt64(detail["Custom"])
		if !ok {
			for kind := range detail {
				return &InstructionError{InstructionIndex: int(idx), Kind: kind}
			}
			return nil
		}
		return newProgramError(int(idx), uint32(code), logs)
	default:
		return nil
	}
}

func newProgramError(idx int, code uint32, logs []string) *ProgramError {
	perr := &ProgramError{
		InstructionIndex: idx,
		Code:             code,
		Logs:             logs,
		Program:          failingProgram(logs, code),
	}

	switch {
	case perr.Program.Equals(mplcore.ProgramID):
		if e, ok := mplcore.ErrorFromCode(code); ok {
			perr.Name, perr.Message = e.Name, e.Msg
		}
	case perr.Program.Equals(solana.SystemProgramID):
		if code == 0 {
			perr.Name, perr.Message = "AccountAlreadyInUse", ErrAccountAlreadyInUse.Error()
		}
	default:
		if e, ok := program.ErrorFromCode(code); ok {
			perr.Name, perr.Message = e.Name, e.Msg
		}
	}
	return perr
}

// failingProgram returns the innermost program reported as failed in the logs. Without logs,
// anchor codes (>= 100) are attributed to the program and smaller ones to mpl core.
func failingProgram(logs []string, code uint32) solana.PublicKey {
	for _, line := range logs {
		match := failedLogRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		pk, err := solana.PublicKeyFromBase58(match[1])
		if err != nil {
			continue
		}
		if pk.Equals(solana.SystemProgramID) || strings.Contains(match[2], "custom program error") {
			return pk
		}
	}
	if code >= 100 {
		return program.ProgramID
	}
	return mplcore.ProgramID
}

func logsFromAny(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	logs := make([]string, 0, len(raw))
	for _, l := range raw {
		if s, ok := l.(string); ok {
			logs = append(logs, s)
		}
	}
	return logs
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}
