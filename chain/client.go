// chain/client.go
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Read surface of the game contract. Writes happen client-side with the
// signatures this service issues; we never send transactions.
const gameABIJSON = `[
  {"name":"getUserProfile","type":"function","stateMutability":"view",
   "inputs":[{"name":"fid","type":"uint256"}],
   "outputs":[{"name":"","type":"tuple","components":[
     {"name":"isRegistered","type":"bool"},
     {"name":"registrationDate","type":"uint256"},
     {"name":"lastClaimTimestamp","type":"uint256"},
     {"name":"claimNonce","type":"uint256"},
     {"name":"totalClaimed","type":"uint256"},
     {"name":"claimsInCurrentCycle","type":"uint256"}]}]},
  {"name":"maxClaimsPerCycle","type":"function","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"cooldownPeriod","type":"function","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"userNonces","type":"function","stateMutability":"view",
   "inputs":[{"name":"","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]}
]`

const powerUpABIJSON = `[
  {"name":"powerUpNonce","type":"function","stateMutability":"view",
   "inputs":[{"name":"fid","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"name":"mintPrice","type":"function","stateMutability":"view",
   "inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// UserProfile mirrors the contract's per-FID claim state.
type UserProfile struct {
	IsRegistered         bool
	RegistrationDate     *big.Int
	LastClaimTimestamp   *big.Int
	ClaimNonce           *big.Int
	TotalClaimed         *big.Int
	ClaimsInCurrentCycle *big.Int
}

// Client is the read-only collaborator for both contracts. maxClaimsPerCycle
// and cooldownPeriod are contract constants in practice, so they are memoized
// for the life of the process — an optimization, not a correctness need.
type Client struct {
	eth         *ethclient.Client
	gameAddr    common.Address
	powerUpAddr common.Address
	gameABI     abi.ABI
	powerUpABI  abi.ABI

	mu          sync.Mutex
	maxClaims   *big.Int
	cooldownSec *big.Int
}

func NewClient(rpcURL, gameAddress, powerUpAddress string) (*Client, error) {
	if !common.IsHexAddress(gameAddress) {
		return nil, fmt.Errorf("invalid game contract address: %s", gameAddress)
	}
	if !common.IsHexAddress(powerUpAddress) {
		return nil, fmt.Errorf("invalid power-up contract address: %s", powerUpAddress)
	}

	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc node: %w", err)
	}

	gameABI, err := abi.JSON(strings.NewReader(gameABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse game abi: %w", err)
	}
	powerUpABI, err := abi.JSON(strings.NewReader(powerUpABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse power-up abi: %w", err)
	}

	return &Client{
		eth:         eth,
		gameAddr:    common.HexToAddress(gameAddress),
		powerUpAddr: common.HexToAddress(powerUpAddress),
		gameABI:     gameABI,
		powerUpABI:  powerUpABI,
	}, nil
}

// GameAddress returns the claim contract address signed into claim hashes.
func (c *Client) GameAddress() common.Address { return c.gameAddr }

// PowerUpAddress returns the NFT contract address signed into mint hashes.
func (c *Client) PowerUpAddress() common.Address { return c.powerUpAddr }

func (c *Client) call(ctx context.Context, addr common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

// GetUserProfile reads the contract's claim state for a FID.
func (c *Client) GetUserProfile(ctx context.Context, fid int64) (*UserProfile, error) {
	out, err := c.call(ctx, c.gameAddr, c.gameABI, "getUserProfile", big.NewInt(fid))
	if err != nil {
		return nil, err
	}
	profile := abi.ConvertType(out[0], new(UserProfile)).(*UserProfile)
	return profile, nil
}

// UserNonce reads the current claim nonce for a wallet. A signature is
// valid for exactly this nonce; the contract advances it on claim.
func (c *Client) UserNonce(ctx context.Context, wallet common.Address) (*big.Int, error) {
	out, err := c.call(ctx, c.gameAddr, c.gameABI, "userNonces", wallet)
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// PowerUpNonce reads the mint nonce for a FID on the power-up contract.
func (c *Client) PowerUpNonce(ctx context.Context, fid int64) (*big.Int, error) {
	out, err := c.call(ctx, c.powerUpAddr, c.powerUpABI, "powerUpNonce", big.NewInt(fid))
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// MintPrice reads the current power-up mint price in wei.
func (c *Client) MintPrice(ctx context.Context) (*big.Int, error) {
	out, err := c.call(ctx, c.powerUpAddr, c.powerUpABI, "mintPrice")
	if err != nil {
		return nil, err
	}
	return out[0].(*big.Int), nil
}

// CycleConfig returns maxClaimsPerCycle and cooldownPeriod (seconds),
// fetching them once per warm process.
func (c *Client) CycleConfig(ctx context.Context) (maxClaims, cooldownSec *big.Int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxClaims != nil && c.cooldownSec != nil {
		return c.maxClaims, c.cooldownSec, nil
	}

	out, err := c.call(ctx, c.gameAddr, c.gameABI, "maxClaimsPerCycle")
	if err != nil {
		return nil, nil, err
	}
	maxClaims = out[0].(*big.Int)

	out, err = c.call(ctx, c.gameAddr, c.gameABI, "cooldownPeriod")
	if err != nil {
		return nil, nil, err
	}
	cooldownSec = out[0].(*big.Int)

	c.maxClaims, c.cooldownSec = maxClaims, cooldownSec
	return maxClaims, cooldownSec, nil
}
