package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "seq_info", CollectedSeqInfo{}.TableName())
	assert.Equal(t, "program_tx", CollectedProgramTx{}.TableName())
	assert.Equal(t, "collection", CollectedCollection{}.TableName())
	assert.Equal(t, "asset", CollectedAsset{}.TableName())
}

func TestAllModels(t *testing.T) {
	models := AllModels()
	assert.Len(t, models, len(AllTables))
	assert.IsType(t, &CollectedSeqInfo{}, models[0])
	assert.IsType(t, &CollectedAsset{}, models[len(models)-1])
}
