package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shoplite/shoplite-api/internal/domain/entity"
	repo "github.com/shoplite/shoplite-api/internal/domain/repository"
	"github.com/shoplite/shoplite-api/pkg/helpers"
)

var ErrProductNotFound = errors.New("product not found")

const (
	categoryCacheKey = "catalog:categories"
	categoryCacheTTL = 10 * time.Minute
)

// CatalogService serves the public storefront reads. Search goes through
// Elasticsearch when configured and falls back to the database otherwise.
type CatalogService struct {
	Products repo.ProductRepository
	Logger   *logrus.Logger
	Redis    *redis.Client
	ES       *elasticsearch.Client
	ESIndex  string
}

func NewCatalogService(products repo.ProductRepository, logger *logrus.Logger, rdb *redis.Client, es *elasticsearch.Client, esIndex string) *CatalogService {
	return &CatalogService{Products: products, Logger: logger, Redis: rdb, ES: es, ESIndex: esIndex}
}

// List returns active products matching the filter. When a search term is
// present and Elasticsearch is available, ids come from the index and are
// hydrated from the database so prices and stock are never stale.
func (s *CatalogService) List(ctx context.Context, f repo.ProductFilter) ([]entity.Product, int, error) {
	f.Status = entity.ProductActive
	if f.Search != "" && s.ES != nil && s.ESIndex != "" {
		ids, err := s.searchIDs(ctx, f.Search)
		if err == nil && len(ids) > 0 {
			byID, gErr := s.Products.GetActiveByIDs(ctx, ids)
			if gErr != nil {
				return nil, 0, gErr
			}
			out := make([]entity.Product, 0, len(byID))
			for _, id := range ids {
				if p, ok := byID[id]; ok {
					out = append(out, p)
				}
			}
			return out, len(out), nil
		}
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to db")
		}
		// fall through to the ILIKE path
	}
	return s.Products.List(ctx, f)
}

// Get returns an active product or ErrProductNotFound. Archived products are
// invisible to the storefront.
func (s *CatalogService) Get(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.Products.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Categories returns the category list, cached in redis. The cache is dropped
// by admin writes through DropCategoryCache.
func (s *CatalogService) Categories(ctx context.Context) ([]entity.Category, error) {
	if s.Redis != nil {
		var cached []entity.Category
		hit, err := helpers.RedisGetJSON(ctx, s.Redis, categoryCacheKey, &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("category cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	cats, err := s.Products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, categoryCacheKey, cats, categoryCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("category cache write failed")
		}
	}
	return cats, nil
}

// DropCategoryCache invalidates the cached category list after a catalog write.
func (s *CatalogService) DropCategoryCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, categoryCacheKey).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("category cache invalidation failed")
	}
}

// IndexProduct writes a product document to the search index. Archived
// products are deleted from the index instead so search never surfaces them.
func (s *CatalogService) IndexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if p.Status != entity.ProductActive {
		req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: p.ID}
		res, err := req.Do(c, s.ES)
		if err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es delete failed")
			}
			return err
		}
		defer func() { _ = res.Body.Close() }()
		return nil
	}

	doc := map[string]any{
		"id":          p.ID,
		"sku":         p.SKU,
		"name":        p.Name,
		"description": p.Description,
		"category":    p.Category,
		"price_cents": p.PriceCents,
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}

// searchIDs runs a multi_match over name/description/sku and returns product
// ids in relevance order.
func (s *CatalogService) searchIDs(ctx context.Context, q string) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "sku^2", "description", "category"},
			},
		},
		"size": 50,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
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
