// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists committed events in sqlite for off-chain observers.
package eventdb

import (
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/aawallet/events"
	"github.com/vechain/aawallet/thor"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	call INTEGER NOT NULL,
	eventIndex INTEGER NOT NULL,
	time INTEGER NOT NULL,
	contract BLOB(20) NOT NULL,
	name TEXT NOT NULL,
	topic BLOB(32) NOT NULL,
	subject BLOB(20) NOT NULL,
	data TEXT NOT NULL,
	PRIMARY KEY (call, eventIndex)
);
CREATE INDEX IF NOT EXISTS event_i0 ON event(contract);
CREATE INDEX IF NOT EXISTS event_i1 ON event(subject);
CREATE INDEX IF NOT EXISTS event_i2 ON event(time);`

type RangeType string

const (
	Call RangeType = "Call"
	Time RangeType = "Time"
)

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

type Range struct {
	Unit RangeType `json:"unit"`
	From uint64    `json:"from"`
	To   uint64    `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Contract *thor.Address `json:"contract"`
	Subject  *thor.Address `json:"subject"`
	Names    []string      `json:"names"`
	Order    OrderType     `json:"order"` // default asc
	Range    *Range        `json:"range"`
	Options  *Options      `json:"options"`
}

// Event is a stored event.
type Event struct {
	Call     uint64          `json:"call"`
	Index    uint32          `json:"index"`
	Time     uint64          `json:"time"`
	Contract thor.Address    `json:"contract"`
	Name     string          `json:"name"`
	Topic    thor.Bytes32    `json:"topic"`
	Subject  thor.Address    `json:"subject"`
	Data     json.RawMessage `json:"data"`
}

// EventDB manages all events.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New opens an event db.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// a memory db lives only as long as its connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem creates a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert stores records. Re-inserting a record replaces it.
func (db *EventDB) Insert(records []*events.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, rec := range records {
		data, err := json.Marshal(rec.Event)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "encode event")
		}
		if _, err = tx.Exec("INSERT OR REPLACE INTO event(call, eventIndex, time, contract, name, topic, subject, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?);",
			rec.Call,
			rec.Index,
			rec.Time,
			rec.Contract.Bytes(),
			rec.Event.Name(),
			events.Topic(rec.Event).Bytes(),
			rec.Event.Subject().Bytes(),
			string(data)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter returns events matching filter.
func (db *EventDB) Filter(filter *Filter) ([]*Event, error) {
	if filter == nil {
		return db.query("SELECT * FROM event ORDER BY call, eventIndex ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		condition := "call"
		if filter.Range.Unit == Time {
			condition = "time"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ? "
		}
	}
	if filter.Contract != nil {
		args = append(args, filter.Contract.Bytes())
		stmt += " AND contract = ? "
	}
	if filter.Subject != nil {
		args = append(args, filter.Subject.Bytes())
		stmt += " AND subject = ? "
	}
	if len(filter.Names) > 0 {
		stmt += " AND name IN (?"
		args = append(args, filter.Names[0])
		for _, name := range filter.Names[1:] {
			stmt += ", ?"
			args = append(args, name)
		}
		stmt += ") "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY call DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY call ASC, eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.query(stmt, args...)
}

func (db *EventDB) query(stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []*Event
	for rows.Next() {
		var (
			call     uint64
			index    uint32
			time     uint64
			contract []byte
			name     string
			topic    []byte
			subject  []byte
			data     string
		)
		if err := rows.Scan(
			&call,
			&index,
			&time,
			&contract,
			&name,
			&topic,
			&subject,
			&data,
		); err != nil {
			return nil, err
		}
		evs = append(evs, &Event{
			Call:     call,
			Index:    index,
			Time:     time,
			Contract: thor.BytesToAddress(contract),
			Name:     name,
			Topic:    thor.BytesToBytes32(topic),
			Subject:  thor.BytesToAddress(subject),
			Data:     json.RawMessage(data),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}

// Path returns the db path.
func (db *EventDB) Path() string {
	return db.path
}

// SQLiteVersion returns the version of the linked sqlite library.
func (db *EventDB) SQLiteVersion() string {
	return db.sqliteVersion
}

// Close closes sqlite.
func (db *EventDB) Close() error {
	return db.db.Close()
}
