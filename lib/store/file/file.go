// Package file implements the account store on a local file. The file holds a JSON array of accounts, or the same
// array exported as a JavaScript module when the file name ends in ".js".
package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/tarancss/bridgebot/lib/store"
)

const jsHeader = "// config.js\nexport const accounts = "

// File implements the account store on a local file.
type File struct {
	name string
	mu   sync.Mutex
}

// New returns a store on the file name. The file does not need to exist.
func New(name string) (*File, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("file store needs a file name")
	}

	return &File{name: name}, nil
}

// Close is a no-op, the file is only open while reading or writing.
func (f *File) Close() error {
	return nil
}

// LoadAccounts reads all accounts. It returns store.ErrDataNotFound if the file does not exist.
func (f *File) LoadAccounts() ([]store.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.load()
}

// SaveAccounts appends accs to the accounts in the file, skipping addresses already present, and rewrites it.
func (f *File) SaveAccounts(accs []store.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	all, err := f.load()
	if err != nil && !errors.Is(err, store.ErrDataNotFound) {
		return err
	}

	seen := make(map[string]bool, len(all)+len(accs))
	for _, a := range all {
		seen[store.AddressKey(a.Address)] = true
	}

	for _, a := range accs {
		if seen[store.AddressKey(a.Address)] {
			continue
		}
		seen[store.AddressKey(a.Address)] = true
		all = append(all, a)
	}

	return f.write(all)
}

func (f *File) load() ([]store.Account, error) {
	b, err := os.ReadFile(f.name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", store.ErrDataNotFound, f.name)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read accounts from %s: %w", f.name, err)
	}

	return Decode(b)
}

func (f *File) write(accs []store.Account) error {
	b, err := Encode(accs, strings.HasSuffix(f.name, ".js"))
	if err != nil {
		return err
	}

	if err = os.WriteFile(f.name, b, 0o600); err != nil {
		return fmt.Errorf("cannot write accounts to %s: %w", f.name, err)
	}

	return nil
}

// Encode returns the file contents for accs, as a JavaScript module when js is true.
func Encode(accs []store.Account, js bool) ([]byte, error) {
	if accs == nil {
		accs = []store.Account{}
	}

	b, err := json.MarshalIndent(accs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode accounts: %w", err)
	}

	if !js {
		return append(b, '\n'), nil
	}

	var buf bytes.Buffer
	buf.WriteString(jsHeader)
	buf.Write(b)
	buf.WriteString(";\n")

	return buf.Bytes(), nil
}

// Decode parses both the JSON and the JavaScript module forms written by Encode.
func Decode(b []byte) ([]store.Account, error) {
	start, end := bytes.IndexByte(b, '['), bytes.LastIndexByte(b, ']')
	if start < 0 || end < start {
		return nil, store.ErrBadFormat
	}

	var accs []store.Account
	if err := json.Unmarshal(b[start:end+1], &accs); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrBadFormat, err)
	}

	return accs, nil
}
