// Package chainconf decodes chain configuration files,
// whose sections are irregular enough that they are consumed with the seeded decoders.
package chainconf

import (
	"context"
	"encoding/json"
	"io"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/recordstream/pkg/seeded"
)

type ChainConfig struct {
	ChainName             string          `json:"chain_name"`
	BlockGasLimit         uint64          `json:"block_gas_limit"`
	InitialState          *StateConfig    `json:"initial_state"`
	TransactionParameters json.RawMessage `json:"transaction_parameters"`
	GasCosts              json.RawMessage `json:"gas_costs,omitempty"`
	Consensus             ConsensusConfig `json:"consensus"`
}

// ChainConfigDecoder decodes the top level of a chain file.
// Every section is required apart from gas_costs,
// and initial_state may be null.
type ChainConfigDecoder struct{}

func (ChainConfigDecoder) DecodeJSON(dec *json.Decoder) (ChainConfig, error) {
	var c ChainConfig
	err := seeded.Schema{
		Name:    "ChainConfig",
		Unknown: seeded.DiscardUnknown,
		Fields: []seeded.Field{
			{Key: "chain_name", Required: true, Decode: seeded.NotNull(&c.ChainName)},
			{Key: "block_gas_limit", Required: true, Decode: gasLimit(&c.BlockGasLimit)},
			{Key: "initial_state", Required: true, Decode: seeded.Nullable[StateConfig](&c.InitialState, StateConfigDecoder{})},
			{Key: "transaction_parameters", Required: true, Decode: seeded.Into(&c.TransactionParameters)},
			{Key: "gas_costs", Decode: seeded.Into(&c.GasCosts)},
			{Key: "consensus", Required: true, Decode: seeded.With[ConsensusConfig](&c.Consensus, ConsensusConfigDecoder{})},
		},
	}.DecodeJSON(dec)
	if err != nil {
		return ChainConfig{}, err
	}
	return c, nil
}

// gasLimit accepts any integer, but only non-negative ones are valid limits.
func gasLimit(ptr *uint64) func(*json.Decoder) error {
	return func(dec *json.Decoder) error {
		var n int64
		if err := seeded.NotNull(&n)(dec); err != nil {
			return err
		}
		if n < 0 {
			return ErrNegative.F("%d", n)
		}
		*ptr = uint64(n)
		return nil
	}
}

// DecodeChainConfig decodes a chain file from r.
func DecodeChainConfig(ctx context.Context, r io.Reader) (ChainConfig, error) {
	c, err := seeded.DecodeContext[ChainConfig](ctx, r, ChainConfigDecoder{})
	if err != nil {
		return ChainConfig{}, err
	}
	var coins int
	if c.InitialState != nil {
		coins = len(c.InitialState.Coins)
	}
	logger.Debug(ctx, "chain config decoded",
		logging.Field("chain_name", c.ChainName),
		logging.Field("coins", coins))
	return c, nil
}

// ConsensusConfig is an externally tagged union.
// PoA is the only known variant:
//
//	{"PoA": {"signing_key": "..."}}
type ConsensusConfig struct {
	PoA *PoAConfig `json:"PoA,omitempty"`
}

type PoAConfig struct {
	SigningKey string `json:"signing_key"`
}

type ConsensusConfigDecoder struct{}

func (ConsensusConfigDecoder) DecodeJSON(dec *json.Decoder) (ConsensusConfig, error) {
	var (
		c   ConsensusConfig
		poa PoAConfig
	)
	poaSchema := seeded.Schema{
		Name:    "PoA",
		Unknown: seeded.RejectUnknown,
		Fields: []seeded.Field{
			{Key: "signing_key", Required: true, Decode: seeded.NotNull(&poa.SigningKey)},
		},
	}
	err := seeded.Schema{
		Name:    "ConsensusConfig",
		Unknown: seeded.RejectUnknown,
		Fields: []seeded.Field{
			{Key: "PoA", Required: true, Decode: func(dec *json.Decoder) error {
				if err := poaSchema.DecodeJSON(dec); err != nil {
					return err
				}
				c.PoA = &poa
				return nil
			}},
		},
	}.DecodeJSON(dec)
	if err != nil {
		return ConsensusConfig{}, err
	}
	return c, nil
}
