package minhash

import (
	"bytes"
	"encoding/gob"
	"io"
)

// signatureSnapshot is the only state Save persists: the trained signature
// matrix's shape and values, not the wordgram universe or hash functions —
// prediction only ever reads the signature matrix.
type signatureSnapshot struct {
	Siglen int
	Ndocs  int
	Values []float64
}

// Save serializes the trained signature matrix to w.
func (e *Engine) Save(w io.Writer) error {
	if !e.trained {
		return ErrNotTrained
	}
	snap := signatureSnapshot{Siglen: e.siglen, Ndocs: e.ndocs, Values: e.sigMatrix.RawMatrix().Data}
	return gob.NewEncoder(w).Encode(snap)
}

// Load restores a signature matrix previously written by Save, replacing
// any existing trained state.
func (e *Engine) Load(r io.Reader) error {
	var snap signatureSnapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return err
	}
	e.sigMatrix = rebuildDense(snap.Siglen, snap.Ndocs, snap.Values)
	e.siglen = snap.Siglen
	e.ndocs = snap.Ndocs
	e.trained = true
	return nil
}

// SaveBytes and LoadBytes are convenience wrappers around Save/Load for
// callers that keep the snapshot in memory (e.g. a cache row) rather than on
// disk.
func (e *Engine) SaveBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Engine) LoadBytes(data []byte) error {
	return e.Load(bytes.NewReader(data))
}
