package dbclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"go.etcd.io/bbolt"

	"github.com/chinazagideon/mock-generator/internal/domain"
	"github.com/chinazagideon/mock-generator/internal/etl"
	"github.com/chinazagideon/mock-generator/internal/record"
)

// boltConnector writes datasets into buckets of a bbolt file.
// Keys are the bucket's zero-padded sequence number, values are JSON records,
// so a cursor walks records in insertion order.
type boltConnector struct {
	db *bbolt.DB
}

func newBoltConnector(conn *domain.SinkConnection) (*boltConnector, error) {
	if conn.Host == "" {
		return nil, fmt.Errorf("bolt: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(conn.Host), 0755); err != nil {
		return nil, fmt.Errorf("bolt: create directory: %w", err)
	}
	db, err := bbolt.Open(conn.Host, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	return &boltConnector{db: db}, nil
}

// BoltKey formats a bucket sequence number as a sortable key.
func BoltKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%020d", seq))
}

func (b *boltConnector) TestConnection(ctx context.Context) error {
	return b.db.View(func(tx *bbolt.Tx) error { return nil })
}

func (b *boltConnector) Write(ctx context.Context, bucket string, ds record.Dataset, mode etl.WriteMode) (int, error) {
	if bucket == "" {
		return 0, fmt.Errorf("bolt sink: target bucket is required")
	}
	written := 0
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if mode == etl.WriteReplace {
			if err := tx.DeleteBucket([]byte(bucket)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return fmt.Errorf("clear target: %w", err)
			}
		}
		bk, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		for i, rec := range ds {
			if err := ctx.Err(); err != nil {
				return err
			}
			seq, err := bk.NextSequence()
			if err != nil {
				return err
			}
			val, err := json.MarshalNoEscape(rec)
			if err != nil {
				return fmt.Errorf("encode record %d: %w", i, err)
			}
			if err := bk.Put(BoltKey(seq), val); err != nil {
				return fmt.Errorf("put record %d: %w", i, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (b *boltConnector) Introspect(ctx context.Context) (*SchemaInfo, error) {
	schema := &SchemaInfo{}
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, bk *bbolt.Bucket) error {
			info := TableInfo{Name: string(name)}
			if _, v := bk.Cursor().First(); v != nil {
				if rec, err := record.Parse(v); err == nil {
					for _, f := range rec.Fields() {
						info.Columns = append(info.Columns, ColumnInfo{Name: f.Key, Type: fmt.Sprintf("%T", f.Value)})
					}
				}
			}
			schema.Tables = append(schema.Tables, info)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	return schema, nil
}

func (b *boltConnector) Close() error {
	return b.db.Close()
}
