package parsing

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/hectorportal/auction/auctionapi"
)

// ExtractCOSEPayload extracts the payload from a COSE_Sign1 message.
// COSE_Sign1 structure: [protected, unprotected, payload, signature], optionally
// wrapped in CBOR tag 18. Returns the payload bytes (element 2) without verifying anything.
func ExtractCOSEPayload(coseBytes []byte) ([]byte, error) {
	raw := coseBytes
	var tagged cbor.RawTag
	if err := cbor.Unmarshal(raw, &tagged); err == nil {
		raw = []byte(tagged.Content)
	}

	var coseArray []any
	if err := cbor.Unmarshal(raw, &coseArray); err != nil {
		return nil, fmt.Errorf("parse COSE array: %w", err)
	}

	if len(coseArray) != 4 {
		return nil, fmt.Errorf("invalid COSE_Sign1 structure: expected 4 elements, got %d", len(coseArray))
	}

	payload, ok := coseArray[2].([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid payload in COSE structure")
	}

	return payload, nil
}

// ParseSignedExport decodes the export carried by a signed message. The signature is
// not checked here; use validation.VerifySignedExport for that.
func ParseSignedExport(signed auctionapi.SignedExport) (*auctionapi.ResultExport, error) {
	payload, err := ExtractCOSEPayload(signed)
	if err != nil {
		return nil, err
	}
	export, err := auctionapi.DecodeCBOR(payload)
	if err != nil {
		return nil, fmt.Errorf("decode signed payload: %w", err)
	}
	return export, nil
}
