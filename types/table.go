package types

import (
	"time"

	"github.com/lib/pq"
)

type Table struct {
	Model interface{}
	Name  string
}

type CollectedSeqInfo struct {
	Name     string `gorm:"type:text;primaryKey"`
	Sequence int64  `gorm:"type:bigint"`
	Cursor   string `gorm:"type:text"`
}

// CollectedProgramTx is one successful transaction that invoked the program.
type CollectedProgramTx struct {
	Signature    string         `gorm:"type:text;primaryKey"`
	Slot         int64          `gorm:"type:bigint;index:program_tx_slot_desc,sort:desc"`
	BlockTime    time.Time      `gorm:"type:timestamp"`
	Payer        string         `gorm:"type:text;index:program_tx_payer"`
	Instructions pq.StringArray `gorm:"type:text[]"`
}

type CollectedCollection struct {
	Addr            string         `gorm:"type:text;primaryKey"`
	Slot            int64          `gorm:"type:bigint;index:collection_slot_desc,sort:desc"`
	Name            string         `gorm:"type:text;index:collection_name"`
	Uri             string         `gorm:"type:text"`
	UpdateAuthority string         `gorm:"type:text;index:collection_update_authority"`
	Payer           string         `gorm:"type:text"`
	NumMinted       int64          `gorm:"type:bigint"`
	CurrentSize     int64          `gorm:"type:bigint"`
	ExternalPlugins pq.StringArray `gorm:"type:text[]"`
	Signature       string         `gorm:"type:text"`
}

type CollectedAsset struct {
	Addr            string `gorm:"type:text;primaryKey"`
	CollectionAddr  string `gorm:"type:text;index:asset_collection_addr"`
	Slot            int64  `gorm:"type:bigint;index:asset_slot_desc,sort:desc"`
	Name            string `gorm:"type:text"`
	Uri             string `gorm:"type:text"`
	Owner           string `gorm:"type:text;index:asset_owner"`
	Authority       string `gorm:"type:text"`
	UpdateAuthority string `gorm:"type:text"`
	Signature       string `gorm:"type:text"`
}

func (CollectedSeqInfo) TableName() string {
	return "seq_info"
}

func (CollectedProgramTx) TableName() string {
	return "program_tx"
}

func (CollectedCollection) TableName() string {
	return "collection"
}

func (CollectedAsset) TableName() string {
	return "asset"
}

// AllTables lists every model the indexer persists, in migration order.
var AllTables = []Table{
	{Model: &CollectedSeqInfo{}, Name: CollectedSeqInfo{}.TableName()},
	{Model: &CollectedProgramTx{}, Name: CollectedProgramTx{}.TableName()},
	{Model: &CollectedCollection{}, Name: CollectedCollection{}.TableName()},
	{Model: &CollectedAsset{}, Name: CollectedAsset{}.TableName()},
}

// AllModels returns the gorm models of AllTables.
func AllModels() []any {
	models := make([]any, 0, len(AllTables))
	for _, t := range AllTables {
		models = append(models, t.Model)
	}
	return models
}
