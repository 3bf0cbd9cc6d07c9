// Package simulator is an in-memory cluster that serves the RPC methods used by the client and
// the indexer and executes create_core_collection and the mpl core calls it makes.
package simulator

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
)

const (
	lamportsPerSignature = 5000
	blockhashValidSlots  = 150
	defaultVersion       = "2.1.13"
)

var upgradeableLoaderID = solana.MustPublicKeyFromBase58("BPFLoaderUpgradeab1e11111111111111111111111")

type Account struct {
	Owner      solana.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool
}

func (a *Account) clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

type txRecord struct {
	signature solana.Signature
	slot      uint64
	blockTime time.Time
	tx        *solana.Transaction
	fee       uint64
	err       any
	logs      []string
}

// Ledger holds accounts and processed transactions. Every accepted transaction lands in its
// own slot and is immediately finalized.
type Ledger struct {
	mtx sync.RWMutex

	accounts   map[solana.PublicKey]*Account
	txs        map[solana.Signature]*txRecord
	history    []*txRecord
	blockhashs map[solana.Hash]uint64
	blockhash  solana.Hash
	slot       uint64

	// side table for the oracle adapters installed on collections, since only the base
	// header of core accounts is encoded
	oracles map[solana.PublicKey]mplcore.OracleAdapter

	programID     solana.PublicKey
	oracleApprove bool
	version       string
	now           func() time.Time
}

type Option func(*Ledger)

func WithProgramID(programID solana.PublicKey) Option {
	return func(l *Ledger) { l.programID = programID }
}

// WithOracleVerdict sets how the oracle answers transfer checks. It rejects by default.
func WithOracleVerdict(approve bool) Option {
	return func(l *Ledger) { l.oracleApprove = approve }
}

func WithVersion(version string) Option {
	return func(l *Ledger) { l.version = version }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts:   make(map[solana.PublicKey]*Account),
		txs:        make(map[solana.Signature]*txRecord),
		blockhashs: make(map[solana.Hash]uint64),
		oracles:    make(map[solana.PublicKey]mplcore.OracleAdapter),
		programID:  program.ProgramID,
		version:    defaultVersion,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, id := range []solana.PublicKey{solana.SystemProgramID, mplcore.ProgramID, l.programID} {
		l.accounts[id] = &Account{Owner: upgradeableLoaderID, Lamports: 1, Executable: true}
	}
	l.advance()
	return l
}

func (l *Ledger) ProgramID() solana.PublicKey {
	return l.programID
}

// Airdrop credits lamports to an account, creating it as a system account when missing.
func (l *Ledger) Airdrop(pk solana.PublicKey, lamports uint64) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	acct, ok := l.accounts[pk]
	if !ok {
		acct = &Account{Owner: solana.SystemProgramID}
		l.accounts[pk] = acct
	}
	acct.Lamports += lamports
}

// SetAccount replaces an account. Used by tests to stage foreign state.
func (l *Ledger) SetAccount(pk solana.PublicKey, acct Account) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	l.accounts[pk] = acct.clone()
}

func (l *Ledger) Account(pk solana.PublicKey) (Account, bool) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	acct, ok := l.accounts[pk]
	if !ok {
		return Account{}, false
	}
	return *acct.clone(), true
}

func (l *Ledger) Slot() uint64 {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return l.slot
}

// advance moves to the next slot with a fresh blockhash. Caller holds the lock.
func (l *Ledger) advance() {
	l.slot++
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], l.slot)
	l.blockhash = solana.Hash(sha256.Sum256(buf[:]))
	l.blockhashs[l.blockhash] = l.slot
	for h, s := range l.blockhashs {
		if l.slot-s > blockhashValidSlots {
			delete(l.blockhashs, h)
		}
	}
}

func rentExemptMinimum(size int) uint64 {
	return uint64(size+128) * 6960
}
