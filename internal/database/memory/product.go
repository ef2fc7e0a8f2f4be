package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"
)

// ProductStore 全文搜尋以不分大小寫的字詞包含近似
type ProductStore struct {
	faults
	mu       sync.RWMutex
	products map[string]model.CNProduct
	servings map[string][]model.CNServing
}

func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[string]model.CNProduct),
		servings: make(map[string][]model.CNServing),
	}
}

func (s *ProductStore) Put(product model.CNProduct, servings ...model.CNServing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.CNNumber] = product
	if len(servings) > 0 {
		s.servings[product.CNNumber] = append([]model.CNServing(nil), servings...)
	}
}

func (s *ProductStore) List(_ context.Context, query core.ProductQuery) ([]*model.CNProduct, int64, error) {
	if err := s.fault(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query.Query))
	manufacturer := strings.ToLower(strings.TrimSpace(query.Manufacturer))
	category := strings.TrimSpace(query.Category)

	matched := make([]*model.CNProduct, 0)
	for _, product := range s.products {
		if category != "" && product.Category != category {
			continue
		}
		if manufacturer != "" && !strings.Contains(strings.ToLower(product.Manufacturer), manufacturer) {
			continue
		}
		if len(terms) > 0 && !matchesAny(product, terms) {
			continue
		}
		product := product
		matched = append(matched, &product)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ProductName < matched[j].ProductName })

	total := int64(len(matched))
	start := query.Offset
	if start > total {
		start = total
	}
	end := total
	if query.Limit > 0 && start+query.Limit < total {
		end = start + query.Limit
	}
	return matched[start:end], total, nil
}

func matchesAny(product model.CNProduct, terms []string) bool {
	haystack := strings.ToLower(product.ProductName + " " + product.Manufacturer)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func (s *ProductStore) GetByCNNumber(_ context.Context, cnNumber string) (*model.CNProduct, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[cnNumber]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return &product, nil
}

func (s *ProductStore) ListServings(_ context.Context, cnNumber string) ([]*model.CNServing, error) {
	if err := s.fault(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.CNServing, 0, len(s.servings[cnNumber]))
	for _, serving := range s.servings[cnNumber] {
		serving := serving
		results = append(results, &serving)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].SequenceNum < results[j].SequenceNum })
	return results, nil
}
