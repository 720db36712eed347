// Package generator creates the accounts the runner works on, either from fresh random keys or derived from an HD
// wallet seed.
package generator

import (
	"bufio"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/tarancss/hd"

	"github.com/tarancss/bridgebot/lib/store"
)

// Errors returned
var (
	ErrBadCount = errors.New("count must be a positive integer")
	ErrHDKey    = errors.New("HD wallet key does not match its address")
)

// PromptCount asks on out for the number of accounts to create and reads it from a line of in.
func PromptCount(in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, "How many wallets do you want to generate? ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return 0, fmt.Errorf("cannot read count: %w", err)
	}

	line = strings.TrimSpace(line)

	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrBadCount, line)
	}

	return n, nil
}

// Generator creates accounts.
type Generator struct {
	hdw  *hd.HdWallet
	next uint32
	log  zerolog.Logger
}

// New returns a generator of random accounts.
func New(log zerolog.Logger) *Generator {
	return &Generator{log: log}
}

// NewHD returns a generator deriving accounts from the hex seed, on wallet 0, external chain, starting at index
// start.
func NewHD(seed string, start uint32, log zerolog.Logger) (*Generator, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(seed, "0x"))
	if err != nil {
		return nil, fmt.Errorf("cannot decode HD seed: %w", err)
	}

	hdw, err := hd.Init(b)
	if err != nil {
		return nil, fmt.Errorf("cannot initialise HD wallet: %w", err)
	}

	return &Generator{hdw: hdw, next: start, log: log}, nil
}

// Generate creates n accounts. Each account is logged as it is created.
func (g *Generator) Generate(n int) ([]store.Account, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCount, n)
	}

	accs := make([]store.Account, 0, n)

	for i := 0; i < n; i++ {
		pk, path, err := g.key()
		if err != nil {
			return accs, err
		}

		a := Account(pk)
		accs = append(accs, a)

		ev := g.log.Info().Int("index", i).Str("address", a.Address)
		if path != "" {
			ev = ev.Str("path", path)
		}
		ev.Msg("account created")
	}

	return accs, nil
}

// key returns the next private key and, for HD generators, its derivation path.
func (g *Generator) key() (*ecdsa.PrivateKey, string, error) {
	if g.hdw == nil {
		pk, err := crypto.GenerateKey()
		return pk, "", err
	}

	id := g.next
	path := fmt.Sprintf("0/%d/%d", hd.External, id)

	addr, key, _, err := g.hdw.Address(0, hd.External, id)
	if err != nil {
		return nil, path, fmt.Errorf("cannot derive HD account %s: %w", path, err)
	}

	pk, err := crypto.ToECDSA(key)
	if err != nil {
		return nil, path, fmt.Errorf("cannot derive HD account %s: %w", path, err)
	}

	if crypto.PubkeyToAddress(pk.PublicKey) != common.BytesToAddress(addr) {
		return nil, path, fmt.Errorf("%w: %s", ErrHDKey, path)
	}

	g.next++

	return pk, path, nil
}

// Account returns the store record of pk.
func Account(pk *ecdsa.PrivateKey) store.Account {
	return store.Account{
		Address:    crypto.PubkeyToAddress(pk.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(pk)),
		PublicKey:  hexutil.Encode(crypto.FromECDSAPub(&pk.PublicKey)),
	}
}
