package validation

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/veraison/go-cose"

	"github.com/hectorportal/auction/auctionapi"
)

var ErrInvalidPublicKey = errors.New("invalid public key")

// ParsePublicKeyPEM reads an ECDSA public key from a PKIX "PUBLIC KEY" PEM block.
func ParsePublicKeyPEM(publicKeyPEM string) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidPublicKey)
	}
	if block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("%w: unexpected PEM type %q", ErrInvalidPublicKey, block.Type)
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	ecKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: key is not ECDSA", ErrInvalidPublicKey)
	}
	return ecKey, nil
}

// VerifySignedExport checks the ES256 COSE_Sign1 signature of a signed export and returns
// the decoded payload. The export is only returned when the signature verifies.
func VerifySignedExport(signed auctionapi.SignedExport, publicKey *ecdsa.PublicKey) (*auctionapi.ResultExport, error) {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(signed); err != nil {
		return nil, fmt.Errorf("parse COSE_Sign1: %w", err)
	}

	alg, err := msg.Headers.Protected.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("read algorithm header: %w", err)
	}
	if alg != cose.AlgorithmES256 {
		return nil, fmt.Errorf("unsupported algorithm %v", alg)
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES256, publicKey)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}

	if err := msg.Verify(nil, verifier); err != nil {
		return nil, fmt.Errorf("COSE signature verification failed: %w", err)
	}

	export, err := auctionapi.DecodeCBOR(msg.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode signed payload: %w", err)
	}
	return export, nil
}
