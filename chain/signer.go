// chain/signer.go
package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds the server's dedicated claim-authorization key. It is never a
// user key; the contract trusts this address and checks the signed nonce.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner parses a hex-encoded private key (0x prefix optional).
func NewSigner(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, fmt.Errorf("signer private key not configured")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid signer private key: %w", err)
	}
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address returns the signer's public address, the one registered with the
// contract as the trusted authorizer.
func (s *Signer) Address() common.Address {
	return s.address
}

// ClaimMessageHash computes keccak256(abi.encodePacked(contract, wallet,
// amountWei, nonce)), matching the contract's claim verification.
func ClaimMessageHash(contract, wallet common.Address, amountWei, nonce *big.Int) []byte {
	return crypto.Keccak256(
		contract.Bytes(),
		wallet.Bytes(),
		common.LeftPadBytes(amountWei.Bytes(), 32),
		common.LeftPadBytes(nonce.Bytes(), 32),
	)
}

// MintMessageHash is the power-up variant: keccak256(abi.encodePacked(
// contract, wallet, tokenType, nonce)).
func MintMessageHash(contract, wallet common.Address, tokenType, nonce *big.Int) []byte {
	return crypto.Keccak256(
		contract.Bytes(),
		wallet.Bytes(),
		common.LeftPadBytes(tokenType.Bytes(), 32),
		common.LeftPadBytes(nonce.Bytes(), 32),
	)
}

// SignHash wraps hash in the EIP-191 personal-message envelope and signs it.
// The recovery id is normalized to 27/28 as Solidity's ecrecover expects.
func (s *Signer) SignHash(hash []byte) ([]byte, error) {
	prefixed := crypto.Keccak256(
		[]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(hash))),
		hash,
	)
	sig, err := crypto.Sign(prefixed, s.key)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}
	sig[64] += 27
	return sig, nil
}
