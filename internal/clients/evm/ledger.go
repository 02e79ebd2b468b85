// Package evm implements the report-verification ledger against an EVM
// contract exposing storeReport/verifyReport.
package evm

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/voxhealth/voxhealth-backend/internal/pkg/apperr"
	"github.com/voxhealth/voxhealth-backend/internal/platform/logger"
)

// defaultChainID is the EduChain testnet.
const defaultChainID = 656476

const ledgerABIJSON = `[
  {
    "inputs": [
      {"internalType": "string", "name": "reportId", "type": "string"},
      {"internalType": "string", "name": "ipfsHash", "type": "string"},
      {"internalType": "string", "name": "fileHash", "type": "string"}
    ],
    "name": "storeReport",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "reportId", "type": "string"},
      {"internalType": "string", "name": "fileHash", "type": "string"}
    ],
    "name": "verifyReport",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

type Ledger struct {
	log      *logger.Logger
	client   *ethclient.Client
	contract *bind.BoundContract
	auth     *bind.TransactOpts
	chainID  *big.Int
}

// NewLedger dials the RPC endpoint and refuses to start when the node
// reports a different chain than the one configured, so writes can
// never land on the wrong network.
func NewLedger(ctx context.Context, log *logger.Logger) (*Ledger, error) {
	ledgerLog := log.With("client", "EVMLedger")

	rpcURL := strings.TrimSpace(os.Getenv("LEDGER_RPC_URL"))
	if rpcURL == "" {
		return nil, fmt.Errorf("missing LEDGER_RPC_URL")
	}
	contractAddr := strings.TrimSpace(os.Getenv("LEDGER_CONTRACT_ADDRESS"))
	if contractAddr == "" {
		return nil, fmt.Errorf("missing LEDGER_CONTRACT_ADDRESS")
	}
	privateKeyHex := strings.TrimSpace(os.Getenv("LEDGER_PRIVATE_KEY"))
	if privateKeyHex == "" {
		return nil, fmt.Errorf("missing LEDGER_PRIVATE_KEY")
	}

	wantChainID := int64(defaultChainID)
	if raw := strings.TrimSpace(os.Getenv("LEDGER_CHAIN_ID")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad LEDGER_CHAIN_ID %q: %w", raw, err)
		}
		wantChainID = parsed
	}

	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}

	chainID, err := client.ChainID(dialCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	if chainID.Int64() != wantChainID {
		client.Close()
		return nil, fmt.Errorf("node reports chain %d, want %d: %w",
			chainID.Int64(), wantChainID, apperr.ErrWrongNetwork)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parse ledger private key: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(ledgerABIJSON))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("parse ledger abi: %w", err)
	}
	contract := bind.NewBoundContract(
		common.HexToAddress(contractAddr), parsedABI, client, client, client)

	ledgerLog.Info("Connected to ledger", "chainID", chainID.Int64(), "contract", contractAddr)
	return &Ledger{
		log:      ledgerLog,
		client:   client,
		contract: contract,
		auth:     auth,
		chainID:  chainID,
	}, nil
}

// Write records (reportID, cid, contentHash) on-chain, waits for the
// transaction to be mined, and returns the transaction hash. The
// contract rejects duplicate report ids.
func (l *Ledger) Write(ctx context.Context, reportID, cid, contentHash string) (string, error) {
	opts := *l.auth
	opts.Context = ctx

	tx, err := l.contract.Transact(&opts, "storeReport", reportID, cid, contentHash)
	if err != nil {
		return "", fmt.Errorf("storeReport for %s: %w", reportID, err)
	}

	receipt, err := bind.WaitMined(ctx, l.client, tx)
	if err != nil {
		return "", fmt.Errorf("wait for storeReport tx %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != 1 {
		return "", fmt.Errorf("storeReport tx %s reverted", tx.Hash().Hex())
	}

	l.log.Info("Report recorded on ledger", "reportID", reportID, "tx", tx.Hash().Hex())
	return tx.Hash().Hex(), nil
}

// Verify asks the contract whether contentHash matches the digest stored
// for reportID. Unknown report ids come back false without error.
func (l *Ledger) Verify(ctx context.Context, reportID, contentHash string) (bool, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx}
	if err := l.contract.Call(opts, &out, "verifyReport", reportID, contentHash); err != nil {
		return false, fmt.Errorf("verifyReport for %s: %w", reportID, err)
	}
	if len(out) == 0 {
		return false, fmt.Errorf("verifyReport for %s: empty result", reportID)
	}
	ok := *abi.ConvertType(out[0], new(bool)).(*bool)
	return ok, nil
}

func (l *Ledger) Close() {
	l.client.Close()
}
