package attest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/veraison/go-cose"

	"github.com/hectorportal/auction/auctionapi"
)

// ContentType is the protected content-type header of a signed export.
const ContentType = "application/cbor"

// HeaderLabelNonce is the private-use unprotected header carrying the signing nonce.
const HeaderLabelNonce int64 = -65537

// ExportSigner signs a result export. KeyManager is the production implementation.
type ExportSigner interface {
	SignExport(export *auctionapi.ResultExport) (auctionapi.SignedExport, error)
}

// SignExport wraps the deterministic CBOR encoding of export in a COSE_Sign1 message
// signed with ES256. The key ID goes in the unprotected headers so a validator holding
// several keys can pick the right one.
func (km *KeyManager) SignExport(export *auctionapi.ResultExport) (auctionapi.SignedExport, error) {
	if export == nil {
		return nil, fmt.Errorf("result export is nil")
	}

	payload, err := export.EncodeCBOR()
	if err != nil {
		return nil, err
	}

	signer, err := cose.NewSigner(cose.AlgorithmES256, km.privateKey)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	keyID, err := km.KeyID()
	if err != nil {
		return nil, err
	}

	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing nonce: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Headers.Protected.SetAlgorithm(cose.AlgorithmES256)
	msg.Headers.Protected[cose.HeaderLabelContentType] = ContentType
	msg.Headers.Unprotected[cose.HeaderLabelKeyID] = []byte(keyID)
	msg.Headers.Unprotected[HeaderLabelNonce] = nonce
	msg.Payload = payload

	if err := msg.Sign(rand.Reader, nil, signer); err != nil {
		return nil, fmt.Errorf("sign export: %w", err)
	}

	signed, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("marshal COSE_Sign1: %w", err)
	}

	slog.Debug("result export signed", "run_id", export.RunID, "key_id", keyID, "bytes", len(signed))

	return auctionapi.SignedExport(signed), nil
}

func generateSecureRandomBytes(length int) ([]byte, error) {
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("entropy generation failed: %w", err)
	}
	return randomBytes, nil
}

func generateNonce() (string, error) {
	randomBytes, err := generateSecureRandomBytes(32) // 256 bits of entropy
	if err != nil {
		return "", fmt.Errorf("failed to generate secure nonce - %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}
