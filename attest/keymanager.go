package attest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var ErrInvalidKey = errors.New("invalid signing key")

// KeyManager holds the ECDSA P-256 key pair used to sign result exports.
type KeyManager struct {
	privateKey *ecdsa.PrivateKey // Keep private - sensitive!
	PublicKey  *ecdsa.PublicKey
}

// NewKeyManager creates a new KeyManager with a fresh key pair.
func NewKeyManager() (*KeyManager, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return &KeyManager{
		privateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
	}, nil
}

// LoadKeyManager reads a PEM-encoded EC private key (SEC 1 or PKCS #8).
func LoadKeyManager(pemBytes []byte) (*KeyManager, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	var privateKey *ecdsa.PrivateKey
	switch block.Type {
	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		privateKey = key
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: PKCS #8 key is not ECDSA", ErrInvalidKey)
		}
		privateKey = ecKey
	default:
		return nil, fmt.Errorf("%w: unexpected PEM type %q", ErrInvalidKey, block.Type)
	}

	if privateKey.Curve != elliptic.P256() {
		return nil, fmt.Errorf("%w: curve %s, want P-256", ErrInvalidKey, privateKey.Curve.Params().Name)
	}

	return &KeyManager{
		privateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
	}, nil
}

// LoadOrCreateKeyManager loads the key at path, generating and saving one (mode 0600) when
// the file does not exist yet.
func LoadOrCreateKeyManager(path string) (*KeyManager, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return LoadKeyManager(data)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read signing key: %w", err)
	}

	km, err := NewKeyManager()
	if err != nil {
		return nil, err
	}
	privatePEM, err := km.PrivateKeyPEM()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(privatePEM), 0o600); err != nil {
		return nil, fmt.Errorf("write signing key: %w", err)
	}
	return km, nil
}

// PublicKeyPEM returns the public key in PEM format
func (km *KeyManager) PublicKeyPEM() (string, error) {
	derBytes, err := x509.MarshalPKIXPublicKey(km.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}

	pemBlock := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: derBytes,
	}

	return string(pem.EncodeToMemory(pemBlock)), nil
}

// PrivateKeyPEM returns the private key as an SEC 1 "EC PRIVATE KEY" block.
func (km *KeyManager) PrivateKeyPEM() (string, error) {
	derBytes, err := x509.MarshalECPrivateKey(km.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: derBytes})), nil
}

// KeyID identifies the public key: the first 8 bytes of SHA-256 over its PKIX DER, hex encoded.
func (km *KeyManager) KeyID() (string, error) {
	return KeyIDFor(km.PublicKey)
}

// KeyIDFor computes the key ID of any ECDSA public key.
func KeyIDFor(publicKey *ecdsa.PublicKey) (string, error) {
	derBytes, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	sum := sha256.Sum256(derBytes)
	return hex.EncodeToString(sum[:8]), nil
}
