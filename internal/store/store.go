// Package store persists snapshots as an opaque binary blob.
//
// A blob is the magic prefix followed by a zstd frame holding the borsh
// encoding of the snapshot. The layout is only stable within one wire
// version.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/near/borsh-go"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
)

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrCorrupt  = errors.New("snapshot corrupt")
)

const wireVersion uint8 = 1

var magic = []byte("SWS\x01")

type wireColumn struct {
	Name     string
	Type     string
	Nullable bool
}

type wireTable struct {
	Name    string
	Columns []wireColumn
}

type wireDatabase struct {
	Version uint8
	Name    string
	Tables  []wireTable
}

// Encode serializes db.
func Encode(db snapshot.Database) ([]byte, error) {
	w := wireDatabase{Version: wireVersion, Name: db.Name()}
	for _, t := range db.Tables() {
		wt := wireTable{Name: t.Name(), Columns: []wireColumn{}}
		for _, c := range t.Columns() {
			wt.Columns = append(wt.Columns, wireColumn(c))
		}
		w.Tables = append(w.Tables, wt)
	}
	if w.Tables == nil {
		w.Tables = []wireTable{}
	}

	raw, err := borsh.Serialize(w)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()

	out := append([]byte{}, magic...)
	return enc.EncodeAll(raw, out), nil
}

// Decode parses a blob produced by Encode.
func Decode(data []byte) (db snapshot.Database, err error) {
	if !bytes.HasPrefix(data, magic) {
		return snapshot.Database{}, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return snapshot.Database{}, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data[len(magic):], nil)
	if err != nil {
		return snapshot.Database{}, fmt.Errorf("%w: decompress: %w", ErrCorrupt, err)
	}

	// borsh panics on some malformed lengths
	defer func() {
		if r := recover(); r != nil {
			db, err = snapshot.Database{}, fmt.Errorf("%w: decode: %v", ErrCorrupt, r)
		}
	}()

	var w wireDatabase
	if err := borsh.Deserialize(&w, raw); err != nil {
		return snapshot.Database{}, fmt.Errorf("%w: decode: %w", ErrCorrupt, err)
	}
	if w.Version != wireVersion {
		return snapshot.Database{}, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, w.Version)
	}

	tables := make([]snapshot.Table, 0, len(w.Tables))
	for _, wt := range w.Tables {
		cols := make([]snapshot.Column, 0, len(wt.Columns))
		for _, wc := range wt.Columns {
			cols = append(cols, snapshot.Column(wc))
		}
		t, err := snapshot.NewTable(wt.Name, cols)
		if err != nil {
			return snapshot.Database{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		tables = append(tables, t)
	}

	db, err = snapshot.NewDatabase(w.Name, tables)
	if err != nil {
		return snapshot.Database{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return db, nil
}

// Write encodes db to path. The file is replaced atomically.
func Write(path string, db snapshot.Database) error {
	data, err := Encode(db)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

// Read loads the snapshot stored at path.
func Read(path string) (snapshot.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return snapshot.Database{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return snapshot.Database{}, fmt.Errorf("read snapshot file: %w", err)
	}

	db, err := Decode(data)
	if err != nil {
		return snapshot.Database{}, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}
