// Package mongosource reads configured export datasets from MongoDB as
// ordered rows for the CSV builder.
package mongosource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/csvweaver/csvresponse"
	"github.com/drblury/csvweaver/internal/config"
)

var (
	// ErrUnknownDataset is returned by Fetch for names that are not configured.
	ErrUnknownDataset = errors.New("unknown dataset")
	// ErrQuery wraps every failure reported by MongoDB.
	ErrQuery = errors.New("dataset query failed")
)

// Collection is the subset of *mongo.Collection used by Source.
type Collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// CollectionFunc resolves a collection handle.
type CollectionFunc func(database, collection string) Collection

// ClientCollections resolves collections through client.
func ClientCollections(client *mongo.Client) CollectionFunc {
	return func(database, collection string) Collection {
		return client.Database(database).Collection(collection)
	}
}

// Source serves the datasets of one configuration.
type Source struct {
	collections CollectionFunc
	database    string
	datasets    map[string]config.DatasetConfig
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithDatabase sets the database used by datasets that do not name one.
func WithDatabase(name string) Option {
	return func(s *Source) {
		if name != "" {
			s.database = name
		}
	}
}

// WithQueryTimeout bounds each Fetch. Zero keeps the caller's deadline only.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *Source) {
		s.timeout = timeout
	}
}

// WithLogger sets the logger for query diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Source. datasets is copied.
func New(collections CollectionFunc, datasets map[string]config.DatasetConfig, opts ...Option) *Source {
	if collections == nil {
		panic("mongosource: collection resolver cannot be nil")
	}
	s := &Source{
		collections: collections,
		database:    "csvweaver",
		datasets:    make(map[string]config.DatasetConfig, len(datasets)),
		logger:      slog.Default(),
	}
	for name, ds := range datasets {
		s.datasets[name] = ds
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Names lists the configured datasets in lexical order.
func (s *Source) Names() []string {
	names := make([]string, 0, len(s.datasets))
	for name := range s.datasets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dataset returns the configuration of name.
func (s *Source) Dataset(name string) (config.DatasetConfig, bool) {
	ds, ok := s.datasets[name]
	return ds, ok
}

// Fetch runs the dataset query and returns one row per document. With Fields
// configured every row is a csvresponse.Record holding exactly those fields in
// that order, missing values as nil; otherwise rows are the documents as
// returned by the server.
func (s *Source) Fetch(ctx context.Context, name string) ([]any, error) {
	ds, ok := s.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	database := ds.Database
	if database == "" {
		database = s.database
	}

	started := time.Now()
	cursor, err := s.collections(database, ds.Collection).Find(ctx, bson.D{}, findOptions(ds))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, name, err)
	}

	var docs []bson.D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, name, err)
	}

	s.logger.With(
		"Dataset", name,
		"Database", database,
		"Collection", ds.Collection,
		"Rows", len(docs),
		"Duration", time.Since(started),
	).Debug("Dataset fetched")

	rows := make([]any, len(docs))
	for i, doc := range docs {
		if len(ds.Fields) == 0 {
			rows[i] = doc
			continue
		}
		rows[i] = project(doc, ds.Fields)
	}
	return rows, nil
}

func findOptions(ds config.DatasetConfig) *options.FindOptions {
	opts := options.Find()
	if len(ds.Fields) > 0 {
		projection := bson.D{}
		if !slices.Contains(ds.Fields, "_id") {
			projection = append(projection, bson.E{Key: "_id", Value: 0})
		}
		for _, field := range ds.Fields {
			projection = append(projection, bson.E{Key: field, Value: 1})
		}
		opts.SetProjection(projection)
	}
	if len(ds.Sort) > 0 {
		sort := make(bson.D, 0, len(ds.Sort))
		for _, key := range ds.Sort {
			if field, desc := strings.CutPrefix(key, "-"); desc {
				sort = append(sort, bson.E{Key: field, Value: -1})
			} else {
				sort = append(sort, bson.E{Key: key, Value: 1})
			}
		}
		opts.SetSort(sort)
	}
	if ds.Limit > 0 {
		opts.SetLimit(ds.Limit)
	}
	return opts
}

func project(doc bson.D, fields []string) csvresponse.Record {
	record := make(csvresponse.Record, len(fields))
	for i, field := range fields {
		record[i] = csvresponse.Field{Name: field, Value: lookup(doc, field)}
	}
	return record
}

// lookup resolves dotted paths through embedded documents.
func lookup(doc bson.D, path string) any {
	head, rest, nested := strings.Cut(path, ".")
	for _, elem := range doc {
		if elem.Key != head {
			continue
		}
		if !nested {
			return elem.Value
		}
		if sub, ok := elem.Value.(bson.D); ok {
			return lookup(sub, rest)
		}
		return nil
	}
	return nil
}
