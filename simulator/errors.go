package simulator

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/goccy/go-json"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
)

// execError is an instruction failure. Builtin failures set kind, custom program errors set code.
type execError struct {
	program solana.PublicKey
	code    uint32
	kind    string
}

func (e *execError) Error() string {
	if e.kind != "" {
		return e.kind
	}
	return fmt.Sprintf("custom program error: 0x%x", e.code)
}

// transactionError renders the error the way the cluster reports it in statuses and preflight data.
func (e *execError) transactionError(index int) map[string]any {
	idx := json.Number(strconv.Itoa(index))
	if e.kind != "" {
		return map[string]any{"InstructionError": []any{idx, e.kind}}
	}
	return map[string]any{
		"InstructionError": []any{idx, map[string]any{"Custom": json.Number(strconv.FormatUint(uint64(e.code), 10))}},
	}
}

func builtinError(kind string) *execError {
	return &execError{kind: kind}
}

// invocation tracks logs for one top-level instruction and its cpi depth.
type invocation struct {
	logs  []string
	depth int
}

func (inv *invocation) invoke(programID solana.PublicKey) {
	inv.depth++
	inv.logs = append(inv.logs, fmt.Sprintf("Program %s invoke [%d]", programID, inv.depth))
}

func (inv *invocation) success(programID solana.PublicKey) {
	inv.logs = append(inv.logs, fmt.Sprintf("Program %s success", programID))
	inv.depth--
}

func (inv *invocation) fail(programID solana.PublicKey, err *execError) *execError {
	inv.logs = append(inv.logs, fmt.Sprintf("Program %s failed: %s", programID, err))
	inv.depth--
	return err
}

func (inv *invocation) log(format string, args ...any) {
	inv.logs = append(inv.logs, "Program log: "+fmt.Sprintf(format, args...))
}

// anchorAccountError logs and returns an anchor error raised while validating an account.
func (inv *invocation) anchorAccountError(programID solana.PublicKey, account string, e *program.Error) *execError {
	inv.log("AnchorError caused by account: %s. Error Code: %s. Error Number: %d. Error Message: %s.", account, e.Name, e.Code, e.Msg)
	return &execError{program: programID, code: e.Code}
}

// anchorError logs and returns an error raised by the program body.
func (inv *invocation) anchorError(programID solana.PublicKey, e *program.Error) *execError {
	inv.log("AnchorError occurred. Error Code: %s. Error Number: %d. Error Message: %s.", e.Name, e.Code, e.Msg)
	return &execError{program: programID, code: e.Code}
}

func (inv *invocation) coreError(e *mplcore.Error) *execError {
	inv.log("Error: %s", e.Msg)
	return &execError{program: mplcore.ProgramID, code: e.Code}
}

// alreadyInUse is the system program failure for allocating an existing account.
func (inv *invocation) alreadyInUse(pk solana.PublicKey) *execError {
	inv.invoke(solana.SystemProgramID)
	inv.logs = append(inv.logs, fmt.Sprintf("Allocate: account Address { address: %s, base: None } already in use", pk))
	return inv.fail(solana.SystemProgramID, &execError{program: solana.SystemProgramID, code: 0})
}

func (inv *invocation) insufficientFunds(have, need uint64) *execError {
	inv.invoke(solana.SystemProgramID)
	inv.logs = append(inv.logs, fmt.Sprintf("Transfer: insufficient lamports %d, need %d", have, need))
	return inv.fail(solana.SystemProgramID, &execError{program: solana.SystemProgramID, code: 1})
}

func simulationFailed(err any, logs []string) *jsonrpc.RPCError {
	return &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction",
		Data: map[string]any{
			"err":  err,
			"logs": anySlice(logs),
		},
	}
}

func rpcError(code int, msg string) *jsonrpc.RPCError {
	return &jsonrpc.RPCError{Code: code, Message: msg}
}

func anySlice(logs []string) []any {
	out := make([]any, len(logs))
	for i, l := range logs {
		out[i] = l
	}
	return out
}
