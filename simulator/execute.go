package simulator

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
)

// state is a copy-on-write view over the ledger accounts and oracle adapters for one transaction.
type state struct {
	base    map[solana.PublicKey]*Account
	dirty   map[solana.PublicKey]*Account
	oracles map[solana.PublicKey]mplcore.OracleAdapter
	staged  map[solana.PublicKey]mplcore.OracleAdapter
}

func newState(base map[solana.PublicKey]*Account, oracles map[solana.PublicKey]mplcore.OracleAdapter) *state {
	return &state{
		base:    base,
		dirty:   make(map[solana.PublicKey]*Account),
		oracles: oracles,
		staged:  make(map[solana.PublicKey]mplcore.OracleAdapter),
	}
}

func (s *state) oracle(collection solana.PublicKey) (mplcore.OracleAdapter, bool) {
	if o, ok := s.staged[collection]; ok {
		return o, true
	}
	o, ok := s.oracles[collection]
	return o, ok
}

func (s *state) setOracle(collection solana.PublicKey, o mplcore.OracleAdapter) {
	s.staged[collection] = o
}

func (s *state) get(pk solana.PublicKey) (*Account, bool) {
	if acct, ok := s.dirty[pk]; ok {
		return acct, true
	}
	acct, ok := s.base[pk]
	if !ok {
		return nil, false
	}
	c := acct.clone()
	s.dirty[pk] = c
	return c, true
}

func (s *state) put(pk solana.PublicKey, acct *Account) {
	s.dirty[pk] = acct
}

func (s *state) commit() {
	for pk, acct := range s.dirty {
		s.base[pk] = acct
	}
	for pk, o := range s.staged {
		s.oracles[pk] = o
	}
}

// exists reports whether an account holds lamports or data.
func (s *state) exists(pk solana.PublicKey) bool {
	acct, ok := s.get(pk)
	return ok && (acct.Lamports > 0 || len(acct.Data) > 0)
}

// accountMeta is a resolved account of a compiled instruction.
type accountMeta struct {
	signer   bool
	writable bool
}

type execCtx struct {
	st     *state
	metas  map[solana.PublicKey]accountMeta
	inv    *invocation
	ledger *Ledger
}

func (c *execCtx) isSigner(pk solana.PublicKey) bool   { return c.metas[pk].signer }
func (c *execCtx) isWritable(pk solana.PublicKey) bool { return c.metas[pk].writable }

// createAccount allocates a rent exempt account funded by the payer through the system program.
func (c *execCtx) createAccount(payer, address, owner solana.PublicKey, data []byte) *execError {
	if c.st.exists(address) {
		return c.inv.alreadyInUse(address)
	}
	rent := rentExemptMinimum(len(data))
	from, ok := c.st.get(payer)
	if !ok || from.Lamports < rent {
		var have uint64
		if ok {
			have = from.Lamports
		}
		return c.inv.insufficientFunds(have, rent)
	}
	c.inv.invoke(solana.SystemProgramID)
	from.Lamports -= rent
	c.st.put(address, &Account{Owner: owner, Lamports: rent, Data: data})
	c.inv.success(solana.SystemProgramID)
	return nil
}

// execute runs every instruction of a verified transaction against st. It returns the index of
// the failed instruction with its error, or -1 and nil.
func (l *Ledger) execute(tx *solana.Transaction, st *state) (int, *execError, []string) {
	msg := tx.Message
	keys := msg.AccountKeys
	h := msg.Header

	var logs []string
	for i, ci := range msg.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) {
			return i, builtinError("NotEnoughAccountKeys"), logs
		}
		programID := keys[ci.ProgramIDIndex]

		accounts := make([]solana.PublicKey, 0, len(ci.Accounts))
		metas := make(map[solana.PublicKey]accountMeta, len(ci.Accounts))
		for _, idx := range ci.Accounts {
			if int(idx) >= len(keys) {
				return i, builtinError("NotEnoughAccountKeys"), logs
			}
			pk := keys[idx]
			accounts = append(accounts, pk)
			n := int(idx)
			meta := accountMeta{signer: n < int(h.NumRequiredSignatures)}
			if meta.signer {
				meta.writable = n < int(h.NumRequiredSignatures-h.NumReadonlySignedAccounts)
			} else {
				meta.writable = n < len(keys)-int(h.NumReadonlyUnsignedAccounts)
			}
			metas[pk] = meta
		}

		inv := &invocation{}
		ctx := &execCtx{st: st, metas: metas, inv: inv, ledger: l}

		var err *execError
		switch {
		case programID.Equals(l.programID):
			inv.invoke(programID)
			err = l.runProgram(ctx, programID, accounts, ci.Data)
			if err != nil {
				inv.fail(programID, err)
			} else {
				inv.success(programID)
			}
		case programID.Equals(mplcore.ProgramID), programID.Equals(solana.SystemProgramID):
			inv.invoke(programID)
			err = inv.fail(programID, builtinError("InvalidInstructionData"))
		default:
			err = builtinError("ProgramAccountNotFound")
		}
		logs = append(logs, inv.logs...)
		if err != nil {
			return i, err, logs
		}
	}
	return -1, nil, logs
}

func (l *Ledger) runProgram(ctx *execCtx, programID solana.PublicKey, accounts []solana.PublicKey, data []byte) *execError {
	ix, err := program.DecodeInstruction(programID, accounts, data)
	if err != nil {
		if perr, ok := asProgramError(err); ok {
			return ctx.inv.anchorError(programID, perr)
		}
		return ctx.inv.anchorError(programID, program.ErrInstructionDidNotDeserialize)
	}
	ctx.inv.log("Instruction: %s", instructionLogName(ix.Name()))

	switch ix := ix.(type) {
	case *program.CreateCollection:
		return l.createCollection(ctx, programID, ix)
	case *program.CreateAsset:
		return l.createAsset(ctx, programID, ix)
	case *program.Transfer:
		return l.transfer(ctx, programID, ix)
	default:
		return ctx.inv.anchorError(programID, program.ErrInstructionFallbackNotFound)
	}
}

func asProgramError(err error) (*program.Error, bool) {
	var perr *program.Error
	ok := errors.As(err, &perr)
	return perr, ok
}

func instructionLogName(name string) string {
	switch name {
	case program.InstructionCreateCollection:
		return "CreateCollection"
	case program.InstructionCreateAsset:
		return "CreateAsset"
	case program.InstructionTransfer:
		return "Transfer"
	default:
		return name
	}
}
