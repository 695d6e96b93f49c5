// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"
)

// Stage abstracts the changes of a state waiting to be written into the store.
type Stage struct {
	stater  *Stater
	keys    []string
	changes map[string][]byte
}

// Len returns the count of changed keys.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Commit writes all changes in a single batch, so they land atomically.
func (s *Stage) Commit() error {
	batch := s.stater.db.NewBatch()
	for _, k := range s.keys {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	for _, k := range s.keys {
		if v := s.changes[k]; len(v) == 0 {
			s.stater.cache.Add(k, []byte(nil))
		} else {
			s.stater.cache.Add(k, v)
		}
	}
	metricStateWrites().Add(int64(len(s.keys)))
	return nil
}
