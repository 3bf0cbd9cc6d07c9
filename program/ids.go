// Package program encodes instructions and accounts of the create_core_collection program.
package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/mplcore"
)

var (
	ProgramID         = solana.MustPublicKeyFromBase58("ER9AadmM55TVTFQGz8YDS94pYwpMDD3BEMSHsRXxpj92")
	MplCoreProgramID  = mplcore.ProgramID
	OracleBaseAddress = solana.MustPublicKeyFromBase58("AwPRxL5f6GDVajyE1bBcfSWdQT58nWMoS36A1uFtpCZY")
)

const CollectionInfoSeed = "collectionInfo"

// FindCollectionInfoAddress derives the collection info PDA. The seed is constant, so each
// deployment holds exactly one collection.
func FindCollectionInfoAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(CollectionInfoSeed)}, programID)
}
