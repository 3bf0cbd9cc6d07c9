// Package mplcore reads and writes the base header of Metaplex Core accounts.
//
// Only the fixed fields every Core collection and asset carries are handled here. Plugin
// registries that follow the header are left untouched.
package mplcore

import "github.com/gagliardetto/solana-go"

var ProgramID = solana.MustPublicKeyFromBase58("CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d")

// Key is the leading byte that tags every Core account.
type Key uint8

const (
	KeyUninitialized Key = iota
	KeyAssetV1
	KeyHashedAssetV1
	KeyPluginHeaderV1
	KeyPluginRegistryV1
	KeyCollectionV1
)

func (k Key) String() string {
	switch k {
	case KeyUninitialized:
		return "Uninitialized"
	case KeyAssetV1:
		return "AssetV1"
	case KeyHashedAssetV1:
		return "HashedAssetV1"
	case KeyPluginHeaderV1:
		return "PluginHeaderV1"
	case KeyPluginRegistryV1:
		return "PluginRegistryV1"
	case KeyCollectionV1:
		return "CollectionV1"
	default:
		return "Unknown"
	}
}
