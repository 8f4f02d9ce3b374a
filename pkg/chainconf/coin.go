package chainconf

import (
	"bytes"
	"encoding/json"

	"go.llib.dev/recordstream/pkg/seeded"
)

// CoinConfig is an unspent coin of the initial chain state.
//
// Quantities are 0x prefixed hex strings,
// and block heights are decimal strings.
// Unknown keys are ignored.
type CoinConfig struct {
	TxID                 *TxID        `json:"tx_id,omitempty"`
	OutputIndex          *uint8       `json:"output_index,omitempty"`
	TxPointerBlockHeight *BlockHeight `json:"tx_pointer_block_height,omitempty"`
	TxPointerTxIdx       *uint16      `json:"tx_pointer_tx_idx,omitempty"`
	Maturity             *BlockHeight `json:"maturity,omitempty"`
	Owner                Address      `json:"owner"`
	Amount               uint64       `json:"amount"`
	AssetID              AssetID      `json:"asset_id"`
}

type CoinConfigDecoder struct{}

func (CoinConfigDecoder) DecodeJSON(dec *json.Decoder) (CoinConfig, error) {
	var c CoinConfig
	err := seeded.Schema{
		Name:    "CoinConfig",
		Unknown: seeded.DiscardUnknown,
		Fields: []seeded.Field{
			{Key: "tx_id", Decode: seeded.OptionalText(&c.TxID, ParseTxID)},
			{Key: "output_index", Decode: seeded.OptionalText(&c.OutputIndex, ParseHex[uint8])},
			{Key: "tx_pointer_block_height", Decode: seeded.OptionalText(&c.TxPointerBlockHeight, ParseBlockHeight)},
			{Key: "tx_pointer_tx_idx", Decode: seeded.OptionalText(&c.TxPointerTxIdx, ParseHex[uint16])},
			{Key: "maturity", Decode: seeded.OptionalText(&c.Maturity, ParseBlockHeight)},
			{Key: "owner", Required: true, Decode: seeded.Text(&c.Owner, ParseAddress)},
			{Key: "amount", Required: true, Decode: seeded.Text(&c.Amount, ParseHex[uint64])},
			{Key: "asset_id", Required: true, Decode: seeded.Text(&c.AssetID, ParseAssetID)},
		},
	}.DecodeJSON(dec)
	if err != nil {
		return CoinConfig{}, err
	}
	return c, nil
}

func (c *CoinConfig) UnmarshalJSON(data []byte) error {
	v, err := CoinConfigDecoder{}.DecodeJSON(json.NewDecoder(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c CoinConfig) MarshalJSON() ([]byte, error) {
	type coin struct {
		TxID                 *TxID        `json:"tx_id,omitempty"`
		OutputIndex          *string      `json:"output_index,omitempty"`
		TxPointerBlockHeight *BlockHeight `json:"tx_pointer_block_height,omitempty"`
		TxPointerTxIdx       *string      `json:"tx_pointer_tx_idx,omitempty"`
		Maturity             *BlockHeight `json:"maturity,omitempty"`
		Owner                Address      `json:"owner"`
		Amount               string       `json:"amount"`
		AssetID              AssetID      `json:"asset_id"`
	}
	out := coin{
		TxID:                 c.TxID,
		TxPointerBlockHeight: c.TxPointerBlockHeight,
		Maturity:             c.Maturity,
		Owner:                c.Owner,
		Amount:               FormatHex(c.Amount),
		AssetID:              c.AssetID,
	}
	if c.OutputIndex != nil {
		v := FormatHex(*c.OutputIndex)
		out.OutputIndex = &v
	}
	if c.TxPointerTxIdx != nil {
		v := FormatHex(*c.TxPointerTxIdx)
		out.TxPointerTxIdx = &v
	}
	return json.Marshal(out)
}
