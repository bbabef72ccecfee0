package db

import (
	"errors"
	"io"

	"github.com/cockroachdb/pebble"
)

// Pebble is a Database over a pebble store, for trees that outlive the
// process.
type Pebble struct {
	db           *pebble.DB
	writeOptions *pebble.WriteOptions
}

var _ Database = (*Pebble)(nil)

// OpenPebble opens (or creates) a pebble store at the given path.
func OpenPebble(path string) (*Pebble, error) {
	pdb, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return NewPebble(pdb), nil
}

func NewPebble(db *pebble.DB) *Pebble {
	return &Pebble{
		db:           db,
		writeOptions: &pebble.WriteOptions{Sync: true},
	}
}

func (p *Pebble) Get(key []byte) ([]byte, error) {
	return get(key, p.db)
}

func (p *Pebble) NewTransaction() Transaction {
	return &pebbleTransaction{
		batch:        p.db.NewIndexedBatch(),
		writeOptions: p.writeOptions,
	}
}

func (p *Pebble) Close() error {
	return p.db.Close()
}

type pebbleTransaction struct {
	batch        *pebble.Batch
	writeOptions *pebble.WriteOptions
}

var _ Transaction = (*pebbleTransaction)(nil)

func (t *pebbleTransaction) Get(key []byte) ([]byte, error) {
	return get(key, t.batch)
}

func (t *pebbleTransaction) Set(key, value []byte) error {
	return t.batch.Set(key, value, t.writeOptions)
}

func (t *pebbleTransaction) Commit() error {
	if t.batch == nil {
		return errors.New("commit: transaction already committed")
	}
	err := t.batch.Commit(t.writeOptions)
	t.batch = nil
	return err
}

func (t *pebbleTransaction) Discard() {
	if t.batch == nil {
		return
	}
	_ = t.batch.Close()
	t.batch = nil
}

type pebbleGetter interface {
	Get([]byte) ([]byte, io.Closer, error)
}

func get(key []byte, g pebbleGetter) ([]byte, error) {
	dat, closer, err := g.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	ret := make([]byte, len(dat))
	copy(ret, dat)
	_ = closer.Close()
	return ret, nil
}
