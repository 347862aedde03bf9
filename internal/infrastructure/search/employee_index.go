package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/employee-management-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// EmployeeIndex mirrors employees into an Elasticsearch index for free-text lookup.
// The repository stays the source of truth; the index only yields ids.
type EmployeeIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewEmployeeIndex(es *elasticsearch.Client, index string) *EmployeeIndex {
	return &EmployeeIndex{es: es, index: index}
}

type employeeDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Mobile      string   `json:"mobile"`
	Designation string   `json:"designation"`
	Gender      string   `json:"gender"`
	Course      []string `json:"course"`
	Status      string   `json:"status"`
	CreateDate  string   `json:"createDate"`
}

func (x *EmployeeIndex) Index(ctx context.Context, e *entity.Employee) error {
	b, err := json.Marshal(employeeDoc{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Mobile:      e.Mobile,
		Designation: e.Designation,
		Gender:      e.Gender,
		Course:      e.Course,
		Status:      string(e.Status),
		CreateDate:  e.CreateDate.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.index, DocumentID: e.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (x *EmployeeIndex) Remove(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over name, email, mobile and designation and returns matching ids by score.
func (x *EmployeeIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "email^2", "mobile", "designation"},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
