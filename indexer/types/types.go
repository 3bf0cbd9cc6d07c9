package types

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/program"
)

// RPCClient is the subset of the solana rpc client the indexer reads from.
// *rpc.Client and the simulator's ledger both satisfy it.
type RPCClient interface {
	mplcore.AccountReader
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	GetTransaction(ctx context.Context, txSig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
	GetVersion(ctx context.Context) (*rpc.GetVersionResult, error)
}

var _ RPCClient = (*rpc.Client)(nil)

type Submodule interface {
	Name() string
	Prepare(ctx context.Context, tx ScrapedTx) error
	Collect(tx ScrapedTx, dbTx *gorm.DB) ([]mq.Event, error)
}

// ScrapedTx is one successful program transaction with its top level program
// instructions decoded. Seq orders transactions as the scraper emitted them.
type ScrapedTx struct {
	Seq          int64
	Signature    string
	Slot         int64
	BlockTime    time.Time
	Payer        solana.PublicKey
	Instructions []program.Instruction
}

// Publisher receives events after the transaction that produced them is committed.
type Publisher interface {
	Publish(ctx context.Context, event mq.Event) error
}
