package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a secondary unique index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a secondary unique index to the entity. Conflicting index
// values reject the write, which is how uniqueness invariants (email, slug,
// order ID) are enforced.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// WithIndexTransform adds a secondary index with lookup transformation,
// enabling case-insensitive lookups.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if the ID or any index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		if err := e.checkIndexConflicts(txn, entity, nil); err != nil {
			return err
		}

		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		return e.writeIndexKeys(txn, id, entity)
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := e.prefix + id
	var entity T

	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by secondary index value.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformedValue := value
	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			transformedValue = idx.lookupTransform(value)
			break
		}
	}

	indexKey := []byte(e.prefix + "idx:" + indexName + ":" + transformedValue)

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update replaces an existing entity.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.readInTxn(txn, id)
		if err != nil {
			return err
		}
		return e.replaceInTxn(txn, id, old, entity)
	})
}

// Mutate applies fn to the stored entity inside a single transaction and
// writes the result back. The read-check-write runs atomically, so capacity
// checks against a single document cannot race with a concurrent writer.
// Returns the mutated entity.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *T
	err := e.store.db.Update(func(txn *badger.Txn) error {
		old, err := e.readInTxn(txn, id)
		if err != nil {
			return err
		}

		updated := *old
		if err := fn(&updated); err != nil {
			return err
		}

		if err := e.replaceInTxn(txn, id, old, &updated); err != nil {
			return err
		}
		result = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete deletes an entity by ID. Idempotent.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := e.prefix + id

	return e.store.db.Update(func(txn *badger.Txn) error {
		var entity T
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
		if err != nil {
			return err
		}

		for _, idx := range e.indexes {
			for _, indexKey := range idx.keyGen(&entity) {
				idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
				if err := txn.Delete([]byte(idxKey)); err != nil {
					return fmt.Errorf("failed to delete index key: %w", err)
				}
			}
		}

		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}

		return nil
	})
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		//nolint:errcheck // Errors surface through yield
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys.
				key := string(it.Item().Key())
				if len(key) > len(e.prefix) {
					remainder := key[len(e.prefix):]
					if strings.HasPrefix(remainder, "idx:") {
						continue
					}
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})

				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil
				}
			}

			return nil
		})
	}
}

// Count returns the number of stored entities.
func (e *Entity[T]) Count(ctx context.Context) (int, error) {
	count := 0
	for _, err := range e.List(ctx) {
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// readInTxn reads and unmarshals the entity inside an open transaction.
func (e *Entity[T]) readInTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get([]byte(e.prefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get existing key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entity)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal old entity: %w", err)
	}
	return &entity, nil
}

// replaceInTxn writes the new entity over the old one, refreshing indexes.
func (e *Entity[T]) replaceInTxn(txn *badger.Txn, id string, old, entity *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	// Delete old index keys before conflict checks so reused values pass.
	for _, idx := range e.indexes {
		for _, indexKey := range idx.keyGen(old) {
			idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
			if err := txn.Delete([]byte(idxKey)); err != nil {
				return fmt.Errorf("failed to delete old index key: %w", err)
			}
		}
	}

	if err := e.checkIndexConflicts(txn, entity, old); err != nil {
		return err
	}

	if err := txn.Set([]byte(e.prefix+id), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	return e.writeIndexKeys(txn, id, entity)
}

// checkIndexConflicts rejects the write when any index value is taken.
// Values held by old (being replaced) are exempt.
func (e *Entity[T]) checkIndexConflicts(txn *badger.Txn, entity, old *T) error {
	for _, idx := range e.indexes {
		oldKeys := make(map[string]bool)
		if old != nil {
			for _, k := range idx.keyGen(old) {
				oldKeys[k] = true
			}
		}

		for _, indexKey := range idx.keyGen(entity) {
			if oldKeys[indexKey] {
				continue
			}

			idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
			_, err := txn.Get([]byte(idxKey))
			if err == nil {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexKey, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}
	}
	return nil
}

// writeIndexKeys writes every index entry pointing back at the entity ID.
func (e *Entity[T]) writeIndexKeys(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, indexKey := range idx.keyGen(entity) {
			idxKey := e.prefix + "idx:" + idx.name + ":" + indexKey
			if err := txn.Set([]byte(idxKey), []byte(id)); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	return nil
}
