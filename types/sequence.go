package types

// SeqInfoName represents the name of a sequence info entry
type SeqInfoName string

const (
	// SeqInfoProgramSignature tracks the newest program signature persisted by the indexer.
	SeqInfoProgramSignature SeqInfoName = "program_signature"
)
