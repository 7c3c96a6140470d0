// Package record reads reconstruction requests, validates them and hands
// them to the reconstruction core.
//
// A request names a threshold and a set of shares, each with a base and a
// digit string:
//
//	{
//	  "keys": {"n": 4, "k": 3},
//	  "1": {"base": "10", "value": "4"},
//	  "2": {"base": "2", "value": "111"}
//	}
//
// Requests can be written as JSON or YAML, as CBOR with the same structure, or
// as a binary shamir.Bundle of already decoded shares.
package record

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/fxamacker/cbor/v2"
	"github.com/renproject/intshamir"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// ErrMalformedInput is returned when a request is structurally invalid. It is
// never returned by the reconstruction core, so it distinguishes bad requests
// from requests whose shares fail to reconstruct.
var ErrMalformedInput = xerrors.New("malformed input")

// IsMalformed returns true if the error was caused by a malformed request.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedInput)
}

func malformed(format string, args ...interface{}) error {
	return xerrors.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrMalformedInput)
}

// keysField is the name of the entry holding the thresholds.
const keysField = "keys"

// Keys holds the thresholds of a request: n shares were dealt and any k of
// them reconstruct the secret.
type Keys struct {
	N int `yaml:"n" cbor:"n"`
	K int `yaml:"k" cbor:"k"`
}

// RawShare is a share exactly as it appears in a request. Missing fields are
// nil.
type RawShare struct {
	Base  *string
	Value *string
}

// Record is a parsed, not yet validated, request.
type Record struct {
	Keys   *Keys
	Shares map[string]RawShare
}

// NewRecord returns a record with the given thresholds and no shares.
func NewRecord(n, k int) *Record {
	return &Record{Keys: &Keys{N: n, K: k}, Shares: map[string]RawShare{}}
}

// Add adds a share with the given id, base and digits to the record.
func (r *Record) Add(id string, base int, digits string) {
	b := strconv.Itoa(base)
	r.Shares[id] = RawShare{Base: &b, Value: &digits}
}

type yamlShare struct {
	Base  *string `yaml:"base"`
	Value *string `yaml:"value"`
}

// ParseYAML parses a JSON or YAML request.
func ParseYAML(data []byte) (*Record, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		if IsMalformed(err) {
			return nil, err
		}
		return nil, malformed("cannot parse request: %v", err)
	}
	if r.Shares == nil {
		return nil, malformed("empty request")
	}
	return &r, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return malformed("line %v: expected a mapping", node.Line)
	}

	r.Keys = nil
	r.Shares = make(map[string]RawShare, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		if key.Value == keysField {
			if r.Keys != nil {
				return malformed("line %v: %q defined twice", key.Line, keysField)
			}
			var keys Keys
			if err := value.Decode(&keys); err != nil {
				return malformed("line %v: invalid %q: %v", value.Line, keysField, err)
			}
			r.Keys = &keys
			continue
		}

		if _, ok := r.Shares[key.Value]; ok {
			return malformed("line %v: share %q defined twice", key.Line, key.Value)
		}
		var share yamlShare
		if err := value.Decode(&share); err != nil {
			return malformed("line %v: invalid share %q: %v", value.Line, key.Value, err)
		}
		r.Shares[key.Value] = RawShare{Base: share.Base, Value: share.Value}
	}
	return nil
}

var cborDecMode = func() cbor.DecMode {
	mode, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("invalid cbor decoding options: %v", err))
	}
	return mode
}()

type cborShare struct {
	Base  interface{} `cbor:"base"`
	Value interface{} `cbor:"value"`
}

// ParseCBOR parses a CBOR request.
func ParseCBOR(data []byte) (*Record, error) {
	var r Record
	if err := r.UnmarshalCBOR(data); err != nil {
		return nil, err
	}
	return &r, nil
}

// UnmarshalCBOR implements the cbor.Unmarshaler interface.
func (r *Record) UnmarshalCBOR(data []byte) error {
	var entries map[interface{}]cbor.RawMessage
	if err := cborDecMode.Unmarshal(data, &entries); err != nil {
		return malformed("cannot parse request: %v", err)
	}

	r.Keys = nil
	r.Shares = make(map[string]RawShare, len(entries))
	for key, raw := range entries {
		s, ok := scalarString(key)
		if !ok || s == nil {
			return malformed("share id %v must be a string or an integer", key)
		}
		id := *s
		if _, ok := r.Shares[id]; ok {
			return malformed("share %q defined twice", id)
		}

		if id == keysField {
			var keys Keys
			if err := cborDecMode.Unmarshal(raw, &keys); err != nil {
				return malformed("invalid %q: %v", keysField, err)
			}
			r.Keys = &keys
			continue
		}

		var share cborShare
		if err := cborDecMode.Unmarshal(raw, &share); err != nil {
			return malformed("invalid share %q: %v", id, err)
		}
		base, ok := scalarString(share.Base)
		if !ok {
			return malformed("share %q: base must be a string or an integer", id)
		}
		value, ok := scalarString(share.Value)
		if !ok {
			return malformed("share %q: value must be a string or an integer", id)
		}
		r.Shares[id] = RawShare{Base: base, Value: value}
	}
	return nil
}

// MarshalCBOR implements the cbor.Marshaler interface.
func (r *Record) MarshalCBOR() ([]byte, error) {
	entries := make(map[string]interface{}, len(r.Shares)+1)
	if r.Keys != nil {
		entries[keysField] = *r.Keys
	}
	for id, share := range r.Shares {
		fields := map[string]string{}
		if share.Base != nil {
			fields["base"] = *share.Base
		}
		if share.Value != nil {
			fields["value"] = *share.Value
		}
		entries[id] = fields
	}
	return cbor.Marshal(entries)
}

// scalarString converts a decoded CBOR scalar to a string. A nil value, from a
// missing field, gives a nil string.
func scalarString(v interface{}) (*string, bool) {
	var s string
	switch v := v.(type) {
	case nil:
		return nil, true
	case string:
		s = v
	case uint64:
		s = strconv.FormatUint(v, 10)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return nil, false
	}
	return &s, true
}

// Validate checks that the record is a well formed request. Errors that are
// caused by the structure of the request wrap ErrMalformedInput; a share
// without digits gives an error wrapping shamir.ErrEmptyValue.
func (r *Record) Validate() error {
	_, err := r.EncodedShares()
	return err
}

// Threshold returns the number of shares needed to reconstruct the secret, or
// zero if the record has no thresholds.
func (r *Record) Threshold() int {
	if r.Keys == nil {
		return 0
	}
	return r.Keys.K
}

// EncodedShares validates the record and returns its shares ordered by index.
func (r *Record) EncodedShares() (shamir.EncodedShares, error) {
	if r.Keys == nil {
		return nil, malformed("missing %q", keysField)
	}
	if r.Keys.K <= 0 || r.Keys.N < r.Keys.K {
		return nil, malformed("invalid thresholds: expected 0 < k <= n, got n = %v, k = %v", r.Keys.N, r.Keys.K)
	}

	ids := make([]string, 0, len(r.Shares))
	for id := range r.Shares {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	encoded := make(shamir.EncodedShares, 0, len(ids))
	for _, id := range ids {
		share := r.Shares[id]
		index, ok := new(big.Int).SetString(id, 10)
		if !ok {
			return nil, malformed("share %q: id is not an integer", id)
		}
		if index.Sign() <= 0 {
			return nil, malformed("share %q: id must be positive", id)
		}
		if share.Base == nil || share.Value == nil {
			return nil, malformed("share %q: missing base or value", id)
		}
		base, err := strconv.Atoi(*share.Base)
		if err != nil {
			return nil, malformed("share %q: base %q is not an integer", id, *share.Base)
		}
		if *share.Value == "" {
			return nil, xerrors.Errorf("share %v: %w", index, shamir.ErrEmptyValue)
		}
		encoded = append(encoded, shamir.EncodedShare{Index: index, Base: base, Digits: *share.Value})
	}

	sort.SliceStable(encoded, func(i, j int) bool {
		return encoded[i].Index.Cmp(encoded[j].Index) < 0
	})
	return encoded, nil
}
