package database

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olivere/elastic/v7"

	"github.com/locvowork/acme_hr_directory/internal/domain"
)

// ElasticSearchClient mirrors employees into an Elasticsearch 7.x index.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient connects to url. Extra options are appended after
// the defaults, which is how tests disable the health check.
func NewElasticSearchClient(url, index string, opts ...elastic.ClientOptionFunc) (*ElasticSearchClient, error) {
	options := append([]elastic.ClientOptionFunc{
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	}, opts...)

	client, err := elastic.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &ElasticSearchClient{client: client, index: index}, nil
}

// IndexEmployee indexes an employee document using its id.
func (es *ElasticSearchClient) IndexEmployee(ctx context.Context, emp domain.Employee) error {
	_, err := es.client.Index().
		Index(es.index).
		Id(strconv.FormatInt(emp.ID, 10)).
		BodyJson(emp).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index employee %d: %w", emp.ID, err)
	}
	return nil
}

// DeleteEmployee removes an employee document. A missing document is not an error.
func (es *ElasticSearchClient) DeleteEmployee(ctx context.Context, id string) error {
	_, err := es.client.Delete().
		Index(es.index).
		Id(id).
		Refresh("true").
		Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return nil
}

// ClearEmployees deletes the whole index. A missing index is not an error;
// the next write recreates it.
func (es *ElasticSearchClient) ClearEmployees(ctx context.Context) error {
	_, err := es.client.DeleteIndex(es.index).Do(ctx)
	if err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("failed to clear index %s: %w", es.index, err)
	}
	return nil
}

// BulkIndexEmployees efficiently indexes multiple employees.
func (es *ElasticSearchClient) BulkIndexEmployees(ctx context.Context, employees []domain.Employee) error {
	bulkRequest := es.client.Bulk()

	for _, emp := range employees {
		req := elastic.NewBulkIndexRequest().
			Index(es.index).
			Id(strconv.FormatInt(emp.ID, 10)).
			Doc(emp)
		bulkRequest = bulkRequest.Add(req)
	}

	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	bulkResponse, err := bulkRequest.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Error != nil {
					return fmt.Errorf("bulk item failed: %s", op.Error.Reason)
				}
			}
		}
	}

	return nil
}
