// Package mongo implements the account store for MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tarancss/bridgebot/lib/store"
)

const (
	database   = "bridgebot"
	collection = "accounts"
	timeout    = 5 * time.Second
)

// Mongo implements a connection to a MongoDB database.
type Mongo struct {
	c *mgo.Client
}

// MongoAccount implements a store account to MongoDB.
type MongoAccount struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Key        string             `bson:"key"` // store.AddressKey of Address
	Address    string             `bson:"address"`
	PrivateKey string             `bson:"privateKey"`
	PublicKey  string             `bson:"publicKey"`
}

// Account converts a MongoAccount to store.Account type.
func (a MongoAccount) Account() store.Account {
	return store.Account{Address: a.Address, PrivateKey: a.PrivateKey, PublicKey: a.PublicKey}
}

// New returns a Mongo client connection to the specified MongoDB database uri.
func New(uri string) (*Mongo, error) {
	// get a client
	c, err := mgo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo DB in %s: %w", uri, err)
	}
	// connect client
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to mongo DB: %w", err)
	}

	return &Mongo{c: c}, nil
}

// Close will close a database connection. Must be called at termination time.
func (m *Mongo) Close() error {
	return m.c.Disconnect(context.Background())
}

func (m *Mongo) col() *mgo.Collection {
	return m.c.Database(database).Collection(collection)
}

// SaveAccounts inserts the accounts whose address is not already stored.
func (m *Mongo) SaveAccounts(accs []store.Account) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	col := m.col()

	for _, a := range accs {
		// try and find it
		var ma MongoAccount

		err := col.FindOne(ctx, bson.M{"key": store.AddressKey(a.Address)}).Decode(&ma)
		if err == nil {
			continue
		}

		if !errors.Is(err, mgo.ErrNoDocuments) {
			return fmt.Errorf("could not insert account in db: %w", err)
		}

		// if not found, do insert it!!
		ma = MongoAccount{
			Key:        store.AddressKey(a.Address),
			Address:    a.Address,
			PrivateKey: a.PrivateKey,
			PublicKey:  a.PublicKey,
		}
		if _, err = col.InsertOne(ctx, ma); err != nil {
			return fmt.Errorf("could not insert account in db: %w", err)
		}
	}

	return nil
}

// LoadAccounts returns the stored accounts in insertion order.
func (m *Mongo) LoadAccounts() ([]store.Account, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cur, err := m.col().Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error getting mongo DB object: %w", err)
	}
	defer cur.Close(ctx)

	var accs []store.Account

	for cur.Next(ctx) {
		var a MongoAccount
		if err = cur.Decode(&a); err != nil {
			return nil, fmt.Errorf("error decoding account: %w", err)
		}

		accs = append(accs, a.Account())
	}

	if err = cur.Err(); err != nil {
		return nil, fmt.Errorf("error reading accounts: %w", err)
	}

	if len(accs) == 0 {
		return nil, store.ErrDataNotFound
	}

	return accs, nil
}

// Drop removes the accounts collection.
func (m *Mongo) Drop() error {
	return m.col().Drop(context.Background())
}
