package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// BadgerRepository implements the Repository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository creates and initializes a new BadgerDB repository.
// It opens the database at the specified path.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.WithField("path", dbPath).Info("BadgerDB opened")

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database connection.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	return nil
}

// NormalizeName collapses runs of whitespace and trims the product name, so
// the dedup key is stable across pages that render the same name with
// different spacing.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// productKey builds the storage key for a product name.
// Format: product:{normalized name}
func productKey(name string) []byte {
	return []byte("product:" + NormalizeName(name))
}

// FindByProductName returns the stored record for this product name, or nil
// when the product has not been seen before.
func (r *BadgerRepository) FindByProductName(ctx context.Context, name string) (*domain.MessageRecord, error) {
	var record *domain.MessageRecord

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(productKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var rec domain.MessageRecord
			if err := json.Unmarshal(val, &rec); err != nil {
				return fmt.Errorf("failed to unmarshal record for %q: %w", name, err)
			}
			record = &rec
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.WithError(err).WithField("product", name).Error("Failed to look up product")
		return nil, fmt.Errorf("failed to find product %q: %w", name, err)
	}
	return record, nil
}

// Save stores a message record keyed by its product name.
func (r *BadgerRepository) Save(ctx context.Context, record domain.MessageRecord) error {
	log := r.log.WithField("product", record.Product.Name)

	if strings.TrimSpace(record.Product.Name) == "" {
		return errors.New("cannot save record without a product name")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	data, err := json.Marshal(record)
	if err != nil {
		log.WithError(err).Error("Failed to marshal record to JSON")
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(productKey(record.Product.Name), data))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save record to BadgerDB")
		return fmt.Errorf("failed to save record: %w", err)
	}

	log.Info("Record saved")
	return nil
}

// --- BadgerDB Internal Logger ---

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
