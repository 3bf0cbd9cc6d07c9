package simulator

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/mplcore"
)

type coreCreateCollectionArgs struct {
	collection      solana.PublicKey
	payer           solana.PublicKey
	updateAuthority solana.PublicKey
	name            string
	uri             string
	oracle          mplcore.OracleAdapter
}

func (l *Ledger) coreCreateCollection(ctx *execCtx, args coreCreateCollectionArgs) *execError {
	inv := ctx.inv
	inv.invoke(mplcore.ProgramID)
	inv.log("Instruction: CreateCollectionV2")

	col := mplcore.BaseCollectionV1{
		UpdateAuthority: args.updateAuthority,
		Name:            args.name,
		URI:             args.uri,
	}
	data, err := col.Marshal()
	if err != nil {
		return inv.fail(mplcore.ProgramID, builtinError("InvalidAccountData"))
	}
	if e := ctx.createAccount(args.payer, args.collection, mplcore.ProgramID, data); e != nil {
		return inv.fail(mplcore.ProgramID, e)
	}
	ctx.st.setOracle(args.collection, args.oracle)
	inv.success(mplcore.ProgramID)
	return nil
}

type coreCreateAssetArgs struct {
	asset           solana.PublicKey
	collection      solana.PublicKey
	authority       solana.PublicKey
	payer           solana.PublicKey
	owner           solana.PublicKey
	updateAuthority *solana.PublicKey
	name            string
	uri             string
}

func (l *Ledger) coreCreateAsset(ctx *execCtx, args coreCreateAssetArgs) *execError {
	inv := ctx.inv
	inv.invoke(mplcore.ProgramID)
	inv.log("Instruction: CreateV2")

	if args.updateAuthority != nil {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrConflictingAuthority))
	}

	colAcct, ok := ctx.st.get(args.collection)
	if !ok || !colAcct.Owner.Equals(mplcore.ProgramID) {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrInvalidCollection))
	}
	col, err := mplcore.DecodeCollection(colAcct.Data)
	if err != nil {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrInvalidCollection))
	}
	if !col.UpdateAuthority.Equals(args.authority) {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrInvalidAuthority))
	}

	asset := mplcore.BaseAssetV1{
		Owner:           args.owner,
		UpdateAuthority: mplcore.CollectionAuthority(args.collection),
		Name:            args.name,
		URI:             args.uri,
	}
	data, err := asset.Marshal()
	if err != nil {
		return inv.fail(mplcore.ProgramID, builtinError("InvalidAccountData"))
	}
	if e := ctx.createAccount(args.payer, args.asset, mplcore.ProgramID, data); e != nil {
		return inv.fail(mplcore.ProgramID, e)
	}

	col.NumMinted++
	col.CurrentSize++
	if colAcct.Data, err = col.Marshal(); err != nil {
		return inv.fail(mplcore.ProgramID, builtinError("InvalidAccountData"))
	}
	inv.success(mplcore.ProgramID)
	return nil
}

type coreTransferArgs struct {
	asset      solana.PublicKey
	collection *solana.PublicKey
	authority  solana.PublicKey
	newOwner   solana.PublicKey
}

func (l *Ledger) coreTransfer(ctx *execCtx, args coreTransferArgs) *execError {
	inv := ctx.inv
	inv.invoke(mplcore.ProgramID)
	inv.log("Instruction: Transfer")

	assetAcct, ok := ctx.st.get(args.asset)
	if !ok || !assetAcct.Owner.Equals(mplcore.ProgramID) {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrInvalidAsset))
	}
	asset, err := mplcore.DecodeAsset(assetAcct.Data)
	if err != nil {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrInvalidAsset))
	}

	if collection, ok := asset.Collection(); ok {
		if args.collection == nil {
			return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrMissingCollection))
		}
		if !args.collection.Equals(collection) {
			return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrInvalidCollection))
		}
		if oracle, ok := ctx.st.oracle(collection); ok {
			if check, ok := oracle.Check(mplcore.LifecycleTransfer); ok && check.CanReject() && !l.oracleApprove {
				inv.log("Oracle %s rejected transfer", oracle.BaseAddress)
				return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrNoApprovals))
			}
		}
	}

	if !asset.Owner.Equals(args.authority) {
		return inv.fail(mplcore.ProgramID, inv.coreError(mplcore.ErrNoApprovals))
	}

	asset.Owner = args.newOwner
	if assetAcct.Data, err = asset.Marshal(); err != nil {
		return inv.fail(mplcore.ProgramID, builtinError("InvalidAccountData"))
	}
	inv.success(mplcore.ProgramID)
	return nil
}
