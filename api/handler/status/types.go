package status

type StatusResponse struct {
	Version    string `json:"version" extensions:"x-order:0"`
	CommitHash string `json:"commit_hash" extensions:"x-order:1"`
	Cluster    string `json:"cluster" extensions:"x-order:2"`
	ProgramId  string `json:"program_id" extensions:"x-order:3"`
	// last indexed transaction, zero until the indexer persisted one
	Slot      int64  `json:"slot" extensions:"x-order:4"`
	Signature string `json:"signature" extensions:"x-order:5"`
}
