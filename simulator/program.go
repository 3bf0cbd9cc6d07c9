package simulator

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
)

// accountCheck mirrors the anchor constraint checks performed while deserializing accounts.
type accountCheck struct {
	ctx       *execCtx
	programID solana.PublicKey
	err       *execError
}

func (a *accountCheck) signer(name string, pk solana.PublicKey) {
	if a.err == nil && !a.ctx.isSigner(pk) {
		a.err = a.ctx.inv.anchorAccountError(a.programID, name, program.ErrAccountNotSigner)
	}
}

func (a *accountCheck) mut(name string, pk solana.PublicKey) {
	if a.err == nil && !a.ctx.isWritable(pk) {
		a.err = a.ctx.inv.anchorAccountError(a.programID, name, program.ErrConstraintMut)
	}
}

func (a *accountCheck) address(name string, pk, want solana.PublicKey) {
	if a.err == nil && !pk.Equals(want) {
		a.err = a.ctx.inv.anchorAccountError(a.programID, name, program.ErrConstraintAddress)
	}
}

func (a *accountCheck) seeds(name string, pk solana.PublicKey) {
	if a.err != nil {
		return
	}
	pda, _, err := program.FindCollectionInfoAddress(a.programID)
	if err != nil || !pk.Equals(pda) {
		a.err = a.ctx.inv.anchorAccountError(a.programID, name, program.ErrConstraintSeeds)
	}
}

// owned loads an initialized account owned by owner.
func (a *accountCheck) owned(name string, pk, owner solana.PublicKey) *Account {
	if a.err != nil {
		return nil
	}
	acct, ok := a.ctx.st.get(pk)
	if !ok || (acct.Lamports == 0 && len(acct.Data) == 0) || acct.Owner.Equals(solana.SystemProgramID) {
		a.err = a.ctx.inv.anchorAccountError(a.programID, name, program.ErrAccountNotInitialized)
		return nil
	}
	if !acct.Owner.Equals(owner) {
		a.err = a.ctx.inv.anchorAccountError(a.programID, name, program.ErrAccountOwnedByWrongProgram)
		return nil
	}
	return acct
}

func (l *Ledger) createCollection(ctx *execCtx, programID solana.PublicKey, ix *program.CreateCollection) *execError {
	acc := ix.Accounts
	check := &accountCheck{ctx: ctx, programID: programID}
	check.signer("collection", acc.Collection)
	check.mut("collection", acc.Collection)
	check.mut("collection_info", acc.CollectionInfo)
	check.seeds("collection_info", acc.CollectionInfo)
	check.signer("payer", acc.Payer)
	check.mut("payer", acc.Payer)
	check.address("mpl_core_program", program.MplCoreOrDefault(acc.MplCoreProgram), mplcore.ProgramID)
	if check.err != nil {
		return check.err
	}

	// init collection_info before the cpi; a second call fails here
	info := program.CollectionInfo{}
	data, err := info.Marshal()
	if err != nil {
		return builtinError("InvalidAccountData")
	}
	if e := ctx.createAccount(acc.Payer, acc.CollectionInfo, programID, data); e != nil {
		return e
	}

	updateAuthority := acc.Payer
	if acc.UpdateAuthority != nil {
		updateAuthority = *acc.UpdateAuthority
	}
	if e := l.coreCreateCollection(ctx, coreCreateCollectionArgs{
		collection:      acc.Collection,
		payer:           acc.Payer,
		updateAuthority: updateAuthority,
		name:            ix.Args.Name,
		uri:             ix.Args.URI,
		oracle:          mplcore.TransferRejectOracle(program.OracleBaseAddress),
	}); e != nil {
		return e
	}

	info = program.CollectionInfo{CollectionAddress: acc.Collection, IsCreated: true}
	if data, err = info.Marshal(); err != nil {
		return builtinError("InvalidAccountData")
	}
	infoAcct, _ := ctx.st.get(acc.CollectionInfo)
	infoAcct.Data = data
	return nil
}

func (l *Ledger) createAsset(ctx *execCtx, programID solana.PublicKey, ix *program.CreateAsset) *execError {
	acc := ix.Accounts
	check := &accountCheck{ctx: ctx, programID: programID}
	check.signer("asset", acc.Asset)
	check.mut("asset", acc.Asset)
	if acc.Authority != nil {
		check.signer("authority", *acc.Authority)
	}
	check.mut("collection", acc.Collection)
	collectionAcct := check.owned("collection", acc.Collection, mplcore.ProgramID)
	if check.err == nil {
		if _, err := mplcore.DecodeCollection(collectionAcct.Data); err != nil {
			check.err = ctx.inv.anchorAccountError(programID, "collection", program.ErrAccountDiscriminatorMismatch)
		}
	}
	check.mut("collection_info", acc.CollectionInfo)
	check.seeds("collection_info", acc.CollectionInfo)
	infoAcct := check.owned("collection_info", acc.CollectionInfo, programID)
	var info *program.CollectionInfo
	if check.err == nil {
		decoded, err := program.DecodeCollectionInfo(infoAcct.Data)
		if err != nil {
			perr, ok := asProgramError(err)
			if !ok {
				perr = program.ErrAccountDidNotDeserialize
			}
			check.err = ctx.inv.anchorAccountError(programID, "collection_info", perr)
		}
		info = decoded
	}
	check.signer("payer", acc.Payer)
	check.mut("payer", acc.Payer)
	check.address("mpl_core_program", program.MplCoreOrDefault(acc.MplCoreProgram), mplcore.ProgramID)
	if check.err != nil {
		return check.err
	}

	if !info.IsCreated {
		return ctx.inv.anchorError(programID, program.ErrCollectionIsNotCreated)
	}
	if !info.CollectionAddress.Equals(acc.Collection) {
		ctx.inv.log("Wrong Collection")
		return ctx.inv.anchorError(programID, program.ErrWrongCollection)
	}

	authority := acc.Payer
	if acc.Authority != nil {
		authority = *acc.Authority
	}
	owner := acc.Payer
	if acc.Owner != nil {
		owner = *acc.Owner
	}
	return l.coreCreateAsset(ctx, coreCreateAssetArgs{
		asset:           acc.Asset,
		collection:      acc.Collection,
		authority:       authority,
		payer:           acc.Payer,
		owner:           owner,
		updateAuthority: acc.UpdateAuthority,
		name:            ix.Args.Name,
		uri:             ix.Args.URI,
	})
}

func (l *Ledger) transfer(ctx *execCtx, programID solana.PublicKey, ix *program.Transfer) *execError {
	acc := ix.Accounts
	check := &accountCheck{ctx: ctx, programID: programID}
	check.mut("asset", acc.Asset)
	if acc.Collection != nil {
		check.mut("collection", *acc.Collection)
	}
	check.signer("payer", acc.Payer)
	check.mut("payer", acc.Payer)
	if acc.Authority != nil {
		check.signer("authority", *acc.Authority)
	}
	check.address("mpl_core", program.MplCoreOrDefault(acc.MplCoreProgram), mplcore.ProgramID)
	if check.err != nil {
		return check.err
	}

	authority := acc.Payer
	if acc.Authority != nil {
		authority = *acc.Authority
	}
	return l.coreTransfer(ctx, coreTransferArgs{
		asset:      acc.Asset,
		collection: acc.Collection,
		authority:  authority,
		newOwner:   acc.NewOwner,
	})
}
