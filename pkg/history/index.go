package history

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/bornholm/websearch/pkg/search"
	"github.com/pkg/errors"
)

// Entry is a search result as recorded in the history index, along with the
// query that produced it.
type Entry struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	RecordedAt  time.Time `json:"recorded_at"`
	Relevance   float64   `json:"-"`
}

// Index stores past search results in a Bleve index and makes them
// searchable offline.
type Index struct {
	index bleve.Index
	mutex sync.RWMutex
}

func buildMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	queryFieldMapping := bleve.NewTextFieldMapping()
	queryFieldMapping.Store = true
	queryFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("query", queryFieldMapping)

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Store = true
	titleFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	descriptionFieldMapping := bleve.NewTextFieldMapping()
	descriptionFieldMapping.Store = true
	descriptionFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("description", descriptionFieldMapping)

	urlFieldMapping := bleve.NewKeywordFieldMapping()
	urlFieldMapping.Store = true
	urlFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("url", urlFieldMapping)

	sourceFieldMapping := bleve.NewKeywordFieldMapping()
	sourceFieldMapping.Store = true
	sourceFieldMapping.Index = true
	docMapping.AddFieldMappingsAt("source", sourceFieldMapping)

	recordedAtFieldMapping := bleve.NewDateTimeFieldMapping()
	recordedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("recorded_at", recordedAtFieldMapping)

	indexMapping.AddDocumentMapping("history_entry", docMapping)

	return indexMapping
}

// Open opens the history index at the given path, creating it on first use.
func Open(path string) (*Index, error) {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		index, err = bleve.New(path, buildMapping())
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Index{index: index}, nil
}

// OpenMemOnly opens a throwaway in-memory history index.
func OpenMemOnly() (*Index, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Index{index: index}, nil
}

func entryID(query string, url string) string {
	sum := sha1.Sum([]byte(query + "\x00" + url))
	return hex.EncodeToString(sum[:])
}

// Record indexes the results of a query. Recording the same query/url pair
// again overwrites the previous entry.
func (i *Index) Record(query string, results []search.Result) error {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	now := time.Now().UTC()

	for _, r := range results {
		entry := Entry{
			ID:          entryID(query, r.URL),
			Query:       query,
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Source:      r.Source,
			RecordedAt:  now,
		}

		if err := i.index.Index(entry.ID, entry); err != nil {
			return errors.WithStack(err)
		}
	}

	return nil
}

// Search performs a full-text search across the recorded entries.
func (i *Index) Search(query string, limit int) ([]Entry, error) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	searchRequest := bleve.NewSearchRequest(bleve.NewQueryStringQuery(query))
	searchRequest.Size = limit
	searchRequest.Fields = []string{"*"}

	searchResults, err := i.index.Search(searchRequest)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var entries []Entry
	for _, hit := range searchResults.Hits {
		entry := Entry{
			ID:        hit.ID,
			Relevance: hit.Score,
		}

		if v, ok := hit.Fields["query"].(string); ok {
			entry.Query = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			entry.Title = v
		}
		if v, ok := hit.Fields["url"].(string); ok {
			entry.URL = v
		}
		if v, ok := hit.Fields["description"].(string); ok {
			entry.Description = v
		}
		if v, ok := hit.Fields["source"].(string); ok {
			entry.Source = v
		}
		if v, ok := hit.Fields["recorded_at"].(string); ok {
			if recordedAt, err := time.Parse(time.RFC3339, v); err == nil {
				entry.RecordedAt = recordedAt
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Count returns the number of recorded entries.
func (i *Index) Count() (uint64, error) {
	i.mutex.RLock()
	defer i.mutex.RUnlock()

	count, err := i.index.DocCount()
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

func (i *Index) Close() error {
	if err := i.index.Close(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
