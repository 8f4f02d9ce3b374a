package chainconf

import (
	"encoding/json"

	"go.llib.dev/recordstream/pkg/seeded"
)

// StateConfig is the initial state of a chain.
// Contracts and messages are kept as raw records.
type StateConfig struct {
	Coins     []CoinConfig      `json:"coins,omitempty"`
	Contracts []json.RawMessage `json:"contracts,omitempty"`
	Messages  []json.RawMessage `json:"messages,omitempty"`
	Height    *BlockHeight      `json:"height,omitempty"`
}

type StateConfigDecoder struct{}

func (StateConfigDecoder) DecodeJSON(dec *json.Decoder) (StateConfig, error) {
	var s StateConfig
	err := seeded.Schema{
		Name:    "StateConfig",
		Unknown: seeded.DiscardUnknown,
		Fields: []seeded.Field{
			{Key: "coins", Decode: seeded.With[[]CoinConfig](&s.Coins, coinsDecoder{})},
			{Key: "contracts", Decode: seeded.Into(&s.Contracts)},
			{Key: "messages", Decode: seeded.Into(&s.Messages)},
			{Key: "height", Decode: seeded.OptionalText(&s.Height, ParseBlockHeight)},
		},
	}.DecodeJSON(dec)
	if err != nil {
		return StateConfig{}, err
	}
	return s, nil
}

// coinsDecoder indexes the coin objects of a sequence, and then decodes each of them as a CoinConfig.
// Entries that are not objects are dropped.
type coinsDecoder struct{}

func (coinsDecoder) DecodeJSON(dec *json.Decoder) ([]CoinConfig, error) {
	indexed, err := seeded.IndexDecoder{}.DecodeJSON(dec)
	if err != nil {
		return nil, err
	}
	coins := make([]CoinConfig, 0, indexed.Len())
	for key, raw := range indexed.All() {
		coin, err := seeded.DecodeRaw[CoinConfig](raw, CoinConfigDecoder{})
		if err != nil {
			return nil, &seeded.FieldError{Key: key, Err: err}
		}
		coins = append(coins, coin)
	}
	return coins, nil
}
