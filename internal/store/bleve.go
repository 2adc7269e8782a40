package store

import (
	"context"
	"sort"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"
)

// BleveStore keeps the keyword index in a bleve index, in memory or on disk.
// Keywords are indexed verbatim with the keyword analyzer, so matching is
// exact token-set membership.
type BleveStore struct {
	mu    sync.Mutex
	index bleve.Index
	seq   uint64
}

// NewBleveStore opens the index at path, creating it if needed. An empty path
// keeps the index in memory.
func NewBleveStore(path string) (*BleveStore, error) {
	var (
		index bleve.Index
		err   error
	)
	if path == "" {
		index, err = bleve.NewMemOnly(indexMapping())
	} else {
		index, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			index, err = bleve.New(path, indexMapping())
		}
	}
	if err != nil {
		return nil, unavailable("bleve open", err)
	}

	count, err := index.DocCount()
	if err != nil {
		index.Close()
		return nil, unavailable("bleve count", err)
	}

	return &BleveStore{index: index, seq: count}, nil
}

// indexMapping indexes keywords as exact terms and seq as a sortable number.
func indexMapping() *mapping.IndexMappingImpl {
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name
	keywordField.IncludeInAll = false
	keywordField.IncludeTermVectors = false

	seqField := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("keywords", keywordField)
	doc.AddFieldMappingsAt("seq", seqField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Close closes the index.
func (s *BleveStore) Close() error {
	return s.index.Close()
}

// Ping checks the index is readable.
func (s *BleveStore) Ping(ctx context.Context) error {
	_, err := s.index.DocCount()
	return err
}

// Driver returns the driver name.
func (s *BleveStore) Driver() string {
	return DriverBleve
}

// Put indexes a new document for id.
func (s *BleveStore) Put(ctx context.Context, id string, kws []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.index.Document(id)
	if err != nil {
		return unavailable("bleve lookup", err)
	}
	if existing != nil {
		return ErrDuplicateKey
	}

	s.seq++
	doc := map[string]interface{}{
		"keywords": kws,
		"seq":      float64(s.seq),
	}
	if err := s.index.Index(id, doc); err != nil {
		return unavailable("bleve index", err)
	}
	return nil
}

// Query returns ids whose documents carry every term, oldest first. It holds
// the write lock so the result size taken from DocCount covers every hit.
func (s *BleveStore) Query(ctx context.Context, terms []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.index.DocCount()
	if err != nil {
		return nil, unavailable("bleve count", err)
	}
	if total == 0 {
		return []string{}, nil
	}

	var q query.Query
	if words := dedupe(terms); len(words) == 0 {
		q = bleve.NewMatchAllQuery()
	} else {
		conjuncts := make([]query.Query, len(words))
		for i, w := range words {
			tq := bleve.NewTermQuery(w)
			tq.SetField("keywords")
			conjuncts[i] = tq
		}
		q = bleve.NewConjunctionQuery(conjuncts...)
	}

	req := bleve.NewSearchRequestOptions(q, int(total), 0, false)
	req.Fields = []string{"seq"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, unavailable("bleve search", err)
	}

	hits := res.Hits
	sort.SliceStable(hits, func(i, j int) bool {
		return hitSeq(hits[i].Fields) < hitSeq(hits[j].Fields)
	})

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

func hitSeq(fields map[string]interface{}) float64 {
	seq, _ := fields["seq"].(float64)
	return seq
}

// Count returns the total number of indexed messages.
func (s *BleveStore) Count(ctx context.Context) (int64, error) {
	n, err := s.index.DocCount()
	if err != nil {
		return 0, unavailable("bleve count", err)
	}
	return int64(n), nil
}
