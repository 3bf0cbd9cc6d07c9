package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solcore-labs/corecollection/codec"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

type ClusterConfig struct {
	Name           string
	RpcUrl         string
	ProgramId      string
	Commitment     string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// GetProgramID returns PROGRAM_ID, or the deployed program id when unset.
func (cc ClusterConfig) GetProgramID() solana.PublicKey {
	if cc.ProgramId == "" {
		return program.ProgramID
	}
	pk, err := codec.ParseAddress("PROGRAM_ID", cc.ProgramId)
	if err != nil {
		return program.ProgramID
	}
	return pk
}

func (cc ClusterConfig) GetCommitment() rpc.CommitmentType {
	return rpc.CommitmentType(cc.Commitment)
}

func (cc ClusterConfig) Validate() error {
	if len(cc.Name) == 0 {
		return types.NewValidationError("CLUSTER", "required field is missing")
	}

	// RPC URL validation
	if len(cc.RpcUrl) == 0 {
		return types.NewValidationError("RPC_URL", "required field is missing")
	}
	if u, err := url.Parse(cc.RpcUrl); err != nil {
		return types.NewValidationError("RPC_URL", fmt.Sprintf("invalid URL format: %s", cc.RpcUrl))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return types.NewValidationError("RPC_URL", fmt.Sprintf("must use http or https scheme, got: %s", u.Scheme))
	}

	if cc.ProgramId != "" {
		if _, err := codec.ParseAddress("PROGRAM_ID", cc.ProgramId); err != nil {
			return err
		}
	}

	switch rpc.CommitmentType(cc.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return types.NewInvalidValueError("COMMITMENT", cc.Commitment, "must be 'processed', 'confirmed' or 'finalized'")
	}

	if cc.ConfirmTimeout <= 0 {
		return types.NewValidationError("CONFIRM_TIMEOUT", "must be positive")
	}
	if cc.PollInterval <= 0 {
		return types.NewValidationError("POLL_INTERVAL", "must be positive")
	}
	if cc.PollInterval > cc.ConfirmTimeout {
		return types.NewValidationError("POLL_INTERVAL", "must not exceed CONFIRM_TIMEOUT")
	}

	return nil
}
