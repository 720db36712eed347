// Package postgres implements the account store for PostgreSQL.
package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" //nolint:gci // load the postgres driver that is used by the system

	"github.com/tarancss/bridgebot/lib/store"
)

const schema = `CREATE TABLE IF NOT EXISTS accounts (
	seq         SERIAL PRIMARY KEY,
	address_key TEXT NOT NULL UNIQUE,
	address     TEXT NOT NULL,
	private_key TEXT NOT NULL,
	public_key  TEXT NOT NULL
)`

// Postgres implements a connection to a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

// New returns a postgres client connection to the specified database in 'connection' and creates the accounts
// table if needed.
func New(connection string) (*Postgres, error) {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB in %s: %w", connection, err)
	}

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create accounts table: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close will close any database connection. Must be called at termination time.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// SaveAccounts inserts the accounts in one transaction, ignoring addresses already stored.
func (p *Postgres) SaveAccounts(accs []store.Account) (err error) {
	tx, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("cannot begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`INSERT INTO accounts (address_key, address, private_key, public_key)
		VALUES ($1, $2, $3, $4) ON CONFLICT (address_key) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("cannot prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range accs {
		if _, err = stmt.Exec(store.AddressKey(a.Address), a.Address, a.PrivateKey, a.PublicKey); err != nil {
			return fmt.Errorf("could not insert account %s: %w", a.Address, err)
		}
	}

	return tx.Commit()
}

// LoadAccounts returns the stored accounts in insertion order.
func (p *Postgres) LoadAccounts() ([]store.Account, error) {
	rows, err := p.db.Query(`SELECT address, private_key, public_key FROM accounts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("cannot query accounts: %w", err)
	}
	defer rows.Close()

	var accs []store.Account

	for rows.Next() {
		var a store.Account
		if err = rows.Scan(&a.Address, &a.PrivateKey, &a.PublicKey); err != nil {
			return nil, fmt.Errorf("cannot read account: %w", err)
		}

		accs = append(accs, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot read accounts: %w", err)
	}

	if len(accs) == 0 {
		return nil, store.ErrDataNotFound
	}

	return accs, nil
}

// Drop removes the accounts table.
func (p *Postgres) Drop() error {
	_, err := p.db.Exec(`DROP TABLE IF EXISTS accounts`)
	return err
}
