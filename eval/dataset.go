package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/verdictlabs/verdict-go/api"
)

// DatasetAPI loads hosted datasets as typed example iterators. Events are
// fetched page by page, so arbitrarily large datasets stream through a run
// without being held in memory.
type DatasetAPI[I, R any] struct {
	apiClient *api.API
}

// NewDatasetAPI creates a DatasetAPI backed by the given tracking-service client.
func NewDatasetAPI[I, R any](apiClient *api.API) *DatasetAPI[I, R] {
	return &DatasetAPI[I, R]{apiClient: apiClient}
}

// DatasetQueryOpts selects which dataset to load.
type DatasetQueryOpts struct {
	// Name is the dataset name (requires project context)
	Name string

	// ID is the dataset ID (direct lookup)
	ID string

	// Version specifies a specific dataset version
	Version string

	// Limit caps how many records are yielded (0 = unlimited)
	Limit int
}

// Get loads a dataset by ID and returns an Examples iterator.
func (d *DatasetAPI[I, R]) Get(ctx context.Context, id string) (Examples[I, R], error) {
	if id == "" {
		return nil, fmt.Errorf("dataset ID is required")
	}

	return &datasetIterator[I, R]{
		pager: newEventPager(id, 0, d.apiClient.Datasets()), // 0 = no limit
	}, nil
}

// Query loads a dataset with advanced query options. Without an explicit ID
// it resolves the most recent dataset matching the name and version.
func (d *DatasetAPI[I, R]) Query(ctx context.Context, opts DatasetQueryOpts) (Examples[I, R], error) {
	if opts.ID != "" {
		return &datasetIterator[I, R]{
			pager: newEventPager(opts.ID, opts.Limit, d.apiClient.Datasets()),
		}, nil
	}

	params := map[string]string{
		"limit": "1", // most recent only
	}
	if opts.Name != "" {
		params["dataset_name"] = opts.Name
	}
	if opts.Version != "" {
		params["version"] = opts.Version
	}

	response, err := d.apiClient.Datasets().Query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}

	if len(response.Objects) == 0 {
		return nil, fmt.Errorf("no datasets found matching the criteria")
	}

	return &datasetIterator[I, R]{
		pager: newEventPager(response.Objects[0].ID, opts.Limit, d.apiClient.Datasets()),
	}, nil
}

// eventPager walks a dataset's events across fetch pages. It tracks the
// service cursor between pages and enforces the caller's record cap.
type eventPager struct {
	datasetID      string
	events         []json.RawMessage
	index          int
	cursor         string
	exhausted      bool
	maxRecords     int
	recordCount    int
	datasetsClient *api.DatasetsClient
}

func newEventPager(datasetID string, maxRecords int, datasetsClient *api.DatasetsClient) *eventPager {
	return &eventPager{
		datasetID:      datasetID,
		maxRecords:     maxRecords,
		datasetsClient: datasetsClient,
	}
}

// decodeNext unmarshals the next event into target, loading a fresh page
// when the current one is spent. Returns io.EOF at the end of the dataset
// or once the record cap is hit.
func (p *eventPager) decodeNext(target interface{}) error {
	if p.maxRecords > 0 && p.recordCount >= p.maxRecords {
		return io.EOF
	}

	if p.index >= len(p.events) && !p.exhausted {
		if err := p.loadPage(); err != nil {
			return err
		}
	}

	if p.index >= len(p.events) {
		return io.EOF
	}

	if err := json.Unmarshal(p.events[p.index], target); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	p.index++
	p.recordCount++
	return nil
}

// loadPage pulls the next page of events from the service. A page smaller
// than requested, or an empty cursor, marks the dataset exhausted.
func (p *eventPager) loadPage() error {
	batchSize := 100

	if p.maxRecords > 0 {
		remaining := p.maxRecords - p.recordCount
		if remaining <= 0 {
			p.exhausted = true
			return nil
		}
		if remaining < batchSize {
			batchSize = remaining
		}
	}

	result, err := p.datasetsClient.Fetch(context.Background(), p.datasetID, p.cursor, batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch dataset events: %w", err)
	}

	p.events = result.Events
	p.index = 0
	p.cursor = result.Cursor

	if result.Cursor == "" || len(result.Events) == 0 {
		p.exhausted = true
	}

	return nil
}

// datasetIterator adapts paged dataset events to Examples[I, R].
type datasetIterator[I, R any] struct {
	pager *eventPager
}

// Next returns the next example from the dataset.
func (di *datasetIterator[I, R]) Next() (Example[I, R], error) {
	var event struct {
		ID       string   `json:"id"`
		Input    I        `json:"input"`
		Expected R        `json:"expected"`
		Tags     []string `json:"tags"`
		Metadata Metadata `json:"metadata"`
	}

	if err := di.pager.decodeNext(&event); err != nil {
		var zero Example[I, R]
		return zero, err
	}

	return Example[I, R]{
		ID:       event.ID,
		Input:    event.Input,
		Expected: event.Expected,
		Tags:     event.Tags,
		Metadata: event.Metadata,
	}, nil
}
