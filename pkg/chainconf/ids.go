package chainconf

import (
	"encoding/hex"
	"math/bits"
	"strconv"
	"strings"

	"go.llib.dev/frameless/pkg/errorkit"
)

const (
	ErrInvalidHex    errorkit.Error = "invalid hex value"
	ErrInvalidLength errorkit.Error = "invalid length"
	ErrNegative      errorkit.Error = "value must not be negative"
)

// ParseHex parses a 0x prefixed hexadecimal number that fits into T.
func ParseHex[T ~uint8 | ~uint16 | ~uint32 | ~uint64](s string) (T, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return 0, ErrInvalidHex.F("%q is missing the 0x prefix", s)
	}
	n, err := strconv.ParseUint(digits, 16, bits.Len64(uint64(^T(0))))
	if err != nil {
		return 0, ErrInvalidHex.Wrap(err)
	}
	return T(n), nil
}

// FormatHex formats n the way ParseHex expects it.
func FormatHex[T ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) string {
	return "0x" + strconv.FormatUint(uint64(n), 16)
}

// Bytes32 is a 32 byte identifier written as 64 hex digits,
// with or without a 0x prefix.
type Bytes32 [32]byte

func ParseBytes32(s string) (Bytes32, error) {
	var b Bytes32
	digits := strings.TrimPrefix(s, "0x")
	if len(digits) != hex.EncodedLen(len(b)) {
		return b, ErrInvalidLength.F("expected %d hex digits but got %d", hex.EncodedLen(len(b)), len(digits))
	}
	if _, err := hex.Decode(b[:], []byte(digits)); err != nil {
		return b, ErrInvalidHex.Wrap(err)
	}
	return b, nil
}

func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	v, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

type (
	Address Bytes32
	AssetID Bytes32
	TxID    Bytes32
)

func ParseAddress(s string) (Address, error) {
	b, err := ParseBytes32(s)
	return Address(b), err
}

func (a Address) String() string { return Bytes32(a).String() }
func (a Address) MarshalText() ([]byte, error) { return Bytes32(a).MarshalText() }
func (a *Address) UnmarshalText(text []byte) error { return (*Bytes32)(a).UnmarshalText(text) }

func ParseAssetID(s string) (AssetID, error) {
	b, err := ParseBytes32(s)
	return AssetID(b), err
}

func (id AssetID) String() string { return Bytes32(id).String() }
func (id AssetID) MarshalText() ([]byte, error) { return Bytes32(id).MarshalText() }
func (id *AssetID) UnmarshalText(text []byte) error { return (*Bytes32)(id).UnmarshalText(text) }

func ParseTxID(s string) (TxID, error) {
	b, err := ParseBytes32(s)
	return TxID(b), err
}

func (id TxID) String() string { return Bytes32(id).String() }
func (id TxID) MarshalText() ([]byte, error) { return Bytes32(id).MarshalText() }
func (id *TxID) UnmarshalText(text []byte) error { return (*Bytes32)(id).UnmarshalText(text) }

// BlockHeight is written as a decimal string.
type BlockHeight uint32

func ParseBlockHeight(s string) (BlockHeight, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return BlockHeight(n), nil
}

func (h BlockHeight) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

func (h BlockHeight) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *BlockHeight) UnmarshalText(text []byte) error {
	v, err := ParseBlockHeight(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
