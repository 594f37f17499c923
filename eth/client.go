package eth

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vigneshbunny/crypto-pay/config"
)

// Client is the ledger gateway backed by an Ethereum JSON-RPC node.
// It keeps both the raw RPC client (fallback query path) and the typed
// client. It holds no signing keys; keys are passed per call.
type Client struct {
	rpcCli  *rpc.Client
	ethCli  *ethclient.Client
	chainID *big.Int
	token   common.Address
	erc20   abi.ABI
	cfg     *config.Eth
	fees    *config.Fee
	logger  zerolog.Logger
}

// NewClient dials the configured node and prepares the token contract
// ABI. The chain ID is queried from the node when not configured.
func NewClient(ctx context.Context, cfg *config.Eth, fees *config.Fee,
	logger zerolog.Logger) (*Client, error) {
	rpcCli, err := rpc.DialContext(ctx, cfg.NodeURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial node")
	}

	ethCli := ethclient.NewClient(rpcCli)

	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		chainID, err = ethCli.ChainID(ctx)
		if err != nil {
			rpcCli.Close()
			return nil, errors.Wrap(err, "query chain id")
		}
	}

	parsed, err := parseERC20ABI()
	if err != nil {
		rpcCli.Close()
		return nil, errors.Wrap(err, "parse token abi")
	}

	return &Client{
		rpcCli:  rpcCli,
		ethCli:  ethCli,
		chainID: chainID,
		token:   common.HexToAddress(cfg.TokenContract),
		erc20:   parsed,
		cfg:     cfg,
		fees:    fees,
		logger:  logger.With().Str("component", "gateway").Logger(),
	}, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.rpcCli.Close()
}

// GenerateKeypair creates a fresh keypair for a new wallet.
func (c *Client) GenerateKeypair() (*Keypair, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}

	return &Keypair{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hex.EncodeToString(crypto.FromECDSA(key)),
		PublicKey:  hex.EncodeToString(crypto.FromECDSAPub(&key.PublicKey)),
	}, nil
}

// NativeBalance returns the native balance of address. Node failures
// degrade to "0" so that a transient outage does not break balance
// display.
func (c *Client) NativeBalance(
	ctx context.Context, address string) (string, error) {
	wei, err := c.ethCli.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("address", address).
			Msg("native balance query failed, returning zero")
		return "0", nil
	}

	return FromBase(wei, c.cfg.NativeDecimals), nil
}

// TokenBalance returns the token balance of address. The primary path
// is a typed contract call; on failure a raw eth_call through the RPC
// client is tried before degrading to "0".
func (c *Client) TokenBalance(
	ctx context.Context, address string) (string, error) {
	input, err := c.erc20.Pack("balanceOf", common.HexToAddress(address))
	if err != nil {
		return "", errors.Wrap(err, "pack balanceOf")
	}

	out, err := c.ethCli.CallContract(ctx, ethereum.CallMsg{
		To:   &c.token,
		Data: input,
	}, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("address", address).
			Msg("token balance call failed, falling back to raw eth_call")
		out, err = c.rawTokenBalance(ctx, input)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("address", address).
			Msg("token balance fallback failed, returning zero")
		return "0", nil
	}

	vals, err := c.erc20.Unpack("balanceOf", out)
	if err != nil || len(vals) != 1 {
		c.logger.Warn().Err(err).Str("address", address).
			Msg("token balance result malformed, returning zero")
		return "0", nil
	}

	units, ok := vals[0].(*big.Int)
	if !ok {
		return "0", nil
	}

	return FromBase(units, c.cfg.TokenDecimals), nil
}

func (c *Client) rawTokenBalance(
	ctx context.Context, input []byte) ([]byte, error) {
	var result hexutil.Bytes
	err := c.rpcCli.CallContext(ctx, &result, "eth_call",
		map[string]interface{}{
			"to":   c.token,
			"data": hexutil.Bytes(input),
		}, "latest")
	return result, err
}

// EstimateNativeFee estimates the fee of a native transfer. The
// estimate is a configured constant rather than a live fee oracle.
func (c *Client) EstimateNativeFee(ctx context.Context) (*Fee, error) {
	return &Fee{Amount: c.fees.Native}, nil
}

// EstimateTokenFee estimates the fee of a token transfer as a range.
func (c *Client) EstimateTokenFee(ctx context.Context) (*Fee, error) {
	return &Fee{Amount: c.fees.TokenMin, Max: c.fees.TokenMax}, nil
}

// ValidateAddress reports whether address is a well-formed hex address.
func (c *Client) ValidateAddress(address string) bool {
	return common.IsHexAddress(address)
}

// SendNative signs and submits a native transfer. The private key only
// lives for the duration of the call.
func (c *Client) SendNative(ctx context.Context,
	privateKey, to, amount string) (*SubmitResult, error) {
	value, err := ToBase(amount, c.cfg.NativeDecimals)
	if err != nil {
		return nil, err
	}

	return c.submit(ctx, privateKey, common.HexToAddress(to), value,
		c.cfg.NativeGasLimit, nil)
}

// SendToken signs and submits a token transfer through the token
// contract.
func (c *Client) SendToken(ctx context.Context,
	privateKey, to, amount string) (*SubmitResult, error) {
	units, err := ToBase(amount, c.cfg.TokenDecimals)
	if err != nil {
		return nil, err
	}

	input, err := c.erc20.Pack("transfer", common.HexToAddress(to), units)
	if err != nil {
		return nil, errors.Wrap(err, "pack transfer")
	}

	return c.submit(ctx, privateKey, c.token, big.NewInt(0),
		c.cfg.TokenGasLimit, input)
}

func (c *Client) submit(ctx context.Context, privateKey string,
	to common.Address, value *big.Int, gasLimit uint64,
	input []byte) (*SubmitResult, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := c.ethCli.PendingNonceAt(ctx, from)
	if err != nil {
		return &SubmitResult{Success: false, Error: err.Error()}, nil
	}

	gasPrice, err := c.ethCli.SuggestGasPrice(ctx)
	if err != nil {
		return &SubmitResult{Success: false, Error: err.Error()}, nil
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, input)
	signed, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), key)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	if err := c.ethCli.SendTransaction(ctx, signed); err != nil {
		return &SubmitResult{Success: false, Error: err.Error()}, nil
	}

	return &SubmitResult{Hash: signed.Hash().Hex(), Success: true}, nil
}

// NativeTransfers scans the recent block window for plain native
// transfers touching address, newest first.
func (c *Client) NativeTransfers(
	ctx context.Context, address string) ([]Transfer, error) {
	head, err := c.ethCli.BlockByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "get head block")
	}

	headNum := head.Number().Uint64()
	start := uint64(0)
	if headNum >= c.cfg.ScanBlocks {
		start = headNum - c.cfg.ScanBlocks + 1
	}

	self := common.HexToAddress(address)
	signer := types.LatestSignerForChainID(c.chainID)

	var result []Transfer

	for n := headNum; n >= start; n-- {
		block := head
		if n != headNum {
			block, err = c.ethCli.BlockByNumber(
				ctx, new(big.Int).SetUint64(n))
			if err != nil {
				return nil, errors.Wrapf(err, "get block %d", n)
			}
		}

		for _, tx := range block.Transactions() {
			if tx.To() == nil {
				// Contract creation, not a transfer.
				continue
			}

			from, err := types.Sender(signer, tx)
			if err != nil {
				c.logger.Warn().Err(err).
					Str("hash", tx.Hash().Hex()).
					Msg("cannot recover sender, skipping")
				result = append(result, Transfer{
					Kind: TransferSkip,
					Hash: tx.Hash().Hex(),
				})
				continue
			}

			if from != self && *tx.To() != self {
				continue
			}

			t := Transfer{
				Kind:          TransferNative,
				Hash:          tx.Hash().Hex(),
				From:          from.Hex(),
				To:            tx.To().Hex(),
				Amount:        FromBase(tx.Value(), c.cfg.NativeDecimals),
				Block:         n,
				Confirmations: confirmationCount(headNum, n),
				Timestamp:     block.Time(),
			}
			if len(tx.Data()) > 0 {
				// Contract call, not a plain value transfer.
				t.Kind = TransferSkip
			}
			result = append(result, t)
		}

		if n == 0 {
			break
		}
	}

	return result, nil
}

// TokenTransfers scans recent Transfer events of the token contract
// touching address, newest first.
func (c *Client) TokenTransfers(
	ctx context.Context, address string) ([]Transfer, error) {
	head, err := c.ethCli.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "get head header")
	}

	headNum := head.Number.Uint64()
	start := uint64(0)
	if headNum >= c.cfg.ScanBlocks {
		start = headNum - c.cfg.ScanBlocks + 1
	}

	// Pin the window to the head read above so confirmation counts
	// are measured against the same block the filter ends at.
	logs, err := c.ethCli.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(start),
		ToBlock:   new(big.Int).SetUint64(headNum),
		Addresses: []common.Address{c.token},
		Topics:    [][]common.Hash{{c.erc20.Events["Transfer"].ID}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "filter transfer logs")
	}

	self := common.HexToAddress(address)

	var result []Transfer

	for i := len(logs) - 1; i >= 0; i-- {
		lg := logs[i]

		if len(lg.Topics) != 3 || len(lg.Data) == 0 {
			result = append(result, Transfer{
				Kind: TransferSkip,
				Hash: lg.TxHash.Hex(),
			})
			continue
		}

		from := common.BytesToAddress(lg.Topics[1].Bytes())
		to := common.BytesToAddress(lg.Topics[2].Bytes())
		if from != self && to != self {
			continue
		}

		units := new(big.Int).SetBytes(lg.Data)

		result = append(result, Transfer{
			Kind:          TransferToken,
			Hash:          lg.TxHash.Hex(),
			From:          from.Hex(),
			To:            to.Hex(),
			Amount:        FromBase(units, c.cfg.TokenDecimals),
			Block:         lg.BlockNumber,
			Confirmations: confirmationCount(headNum, lg.BlockNumber),
		})
	}

	return result, nil
}

// Confirmations returns the confirmation count of a transaction, zero
// while it is unknown or not yet included in a block.
func (c *Client) Confirmations(
	ctx context.Context, hash string) (uint64, error) {
	receipt, err := c.ethCli.TransactionReceipt(
		ctx, common.HexToHash(hash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "get receipt")
	}

	head, err := c.ethCli.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "get head header")
	}

	return confirmationCount(
		head.Number.Uint64(), receipt.BlockNumber.Uint64()), nil
}

// confirmationCount measures how far head has advanced past the
// including block. A block ahead of the measured head counts as zero
// rather than wrapping the unsigned subtraction.
func confirmationCount(head, included uint64) uint64 {
	if head < included {
		return 0
	}
	return head - included
}
