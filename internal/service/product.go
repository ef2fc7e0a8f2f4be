package service

import (
	"context"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"
)

// ProductService 唯讀目錄查詢
type ProductService struct {
	trace *telemetry.Trace
	store ProductStore
}

func NewProductService(trace *telemetry.Trace, store ProductStore) *ProductService {
	return &ProductService{trace: trace, store: store}
}

func (s *ProductService) List(ctx context.Context, query core.ProductQuery) (_ []*model.CNProduct, _ int64, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	products, total, err := s.store.List(ctx, query)
	s.trace.ApplyTraceAttributes(span, core.TraceProductQueryMeta{
		Op:           "list",
		Query:        query.Query,
		Category:     query.Category,
		Manufacturer: query.Manufacturer,
		Limit:        query.Limit,
		Offset:       query.Offset,
		Total:        total,
	})
	if err != nil {
		return nil, 0, storageError("list products", err)
	}
	return products, total, nil
}

func (s *ProductService) Get(ctx context.Context, cnNumber string) (_ *model.CNProduct, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()
	s.trace.ApplyTraceAttributes(span, core.TraceProductQueryMeta{Op: "get", CNNumber: cnNumber})

	product, err := s.store.GetByCNNumber(ctx, cnNumber)
	if isNotFound(err) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, storageError("get product", err)
	}
	return product, nil
}

// Servings 產品不存在時回傳 ErrProductNotFound
func (s *ProductService) Servings(ctx context.Context, cnNumber string) (_ *model.CNProduct, _ []*model.CNServing, returnedError error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()
	s.trace.ApplyTraceAttributes(span, core.TraceProductQueryMeta{Op: "servings", CNNumber: cnNumber})

	product, err := s.Get(ctx, cnNumber)
	if err != nil {
		return nil, nil, err
	}
	servings, err := s.store.ListServings(ctx, cnNumber)
	if err != nil {
		return nil, nil, storageError("list servings", err)
	}
	return product, servings, nil
}
