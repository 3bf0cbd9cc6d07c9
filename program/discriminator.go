package program

import "crypto/sha256"

const DiscriminatorLength = 8

// Discriminator returns the Anchor discriminator for "<namespace>:<name>".
func Discriminator(namespace, name string) [DiscriminatorLength]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [DiscriminatorLength]byte
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

const (
	InstructionCreateCollection = "create_collection"
	InstructionCreateAsset      = "create_asset"
	InstructionTransfer         = "transfer"
)

var (
	CreateCollectionDiscriminator = Discriminator("global", InstructionCreateCollection)
	CreateAssetDiscriminator      = Discriminator("global", InstructionCreateAsset)
	TransferDiscriminator         = Discriminator("global", InstructionTransfer)
	CollectionInfoDiscriminator   = Discriminator("account", "CollectionInfo")
)
