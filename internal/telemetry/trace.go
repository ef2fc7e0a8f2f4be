package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"cnapi/config"
	"cnapi/internal/core"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const traceShutdownTimeout = 5 * time.Second

type Trace struct {
	TracerProvider *sdktrace.TracerProvider
	ServiceName    string
	tracer         trace.Tracer
}

// NewTrace 未啟用時回傳 noop tracer；cleanup 會把尚未送出的 span flush 掉
func NewTrace(conf *config.Configuration) (*Trace, func(), error) {
	if conf == nil || !conf.Telemetry.Trace.Enabled {
		return &Trace{tracer: noop.NewTracerProvider().Tracer("noop")}, func() {}, nil
	}
	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithEndpointURL(conf.Telemetry.Trace.EndpointUrl),
		otlptracehttp.WithRetry(otlptracehttp.RetryConfig{
			Enabled:         true,
			InitialInterval: 5 * time.Second,
			MaxInterval:     10 * time.Second,
			MaxElapsedTime:  60 * time.Second,
		}),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(conf.App.Name),
		semconv.ServiceVersion(conf.App.Version),
		semconv.DeploymentEnvironmentName(conf.App.Env),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(samplerFor(conf.Telemetry.Trace.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), traceShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}
	return &Trace{
		TracerProvider: tp,
		ServiceName:    conf.App.Name,
		tracer:         tp.Tracer(conf.App.Name),
	}, cleanup, nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

func (t *Trace) StartSpanForLayer(
	ctx context.Context,
	spanName core.TraceSpanName,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	tracer := t.tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return tracer.Start(ctx, string(spanName), opts...)
}

// WithSpan 同時接受 *gin.Context（handler）與 context.Context（service/repo）
// 未指定名稱時 handler 取路由 handler 名，其餘取呼叫者方法名
func (t *Trace) WithSpan(parent any, name ...string) (context.Context, trace.Span, func(error)) {
	override := ""
	if len(name) > 0 {
		override = strings.TrimSpace(name[0])
	}

	var (
		ctx  context.Context
		span trace.Span
	)
	switch p := parent.(type) {
	case *gin.Context:
		n := override
		if n == "" {
			n = spanNameFromGin(p)
		}
		ctx, span = t.StartSpanForLayer(t.GetTraceContext(p), core.TraceSpanName(n))
		p.Set(core.ContextTraceKey, ctx)
	case context.Context:
		n := override
		if n == "" {
			n = prettifyFuncName(callerFuncName(2))
		}
		if n == "" {
			n = "unknown"
		}
		ctx, span = t.StartSpanForLayer(p, core.TraceSpanName(n))
	default:
		n := override
		if n == "" {
			n = "unknown"
		}
		ctx, span = t.StartSpanForLayer(context.Background(), core.TraceSpanName(n))
	}
	return ctx, span, func(err error) { t.EndSpan(span, err) }
}

// EndSpan 結束 span，有錯誤時標記狀態
func (t *Trace) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetTraceContext 取得 middleware 鏈上最新的 ctx
func (t *Trace) GetTraceContext(c *gin.Context) context.Context {
	if ctx, ok := c.Get(core.ContextTraceKey); ok {
		if traced, ok := ctx.(context.Context); ok {
			return traced
		}
	}
	return c.Request.Context()
}

// ApplyTraceAttributes 依 struct 的 `trace:"key[,omitempty]"` 標籤寫入 span attributes
func (t *Trace) ApplyTraceAttributes(span trace.Span, obj any) {
	if span == nil || obj == nil || !span.IsRecording() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("ApplyTraceAttributes panic: %v", r))
		}
	}()
	span.SetAttributes(traceAttributes(reflect.ValueOf(obj))...)
}

type hexer interface{ Hex() string }

func traceAttributes(val reflect.Value) []attribute.KeyValue {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	attrs := make([]attribute.KeyValue, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("trace")
		if tag == "" || tag == "-" {
			continue
		}
		key, opts, _ := strings.Cut(tag, ",")
		omitEmpty := opts == "omitempty"

		field := val.Field(i)
		if !field.IsValid() || !field.CanInterface() {
			continue
		}
		if omitEmpty && field.IsZero() {
			continue
		}
		attrs = append(attrs, fieldAttributes(key, field)...)
	}
	return attrs
}

func fieldAttributes(key string, field reflect.Value) []attribute.KeyValue {
	// ObjectID 與時間以可讀字串呈現
	switch v := field.Interface().(type) {
	case hexer:
		return []attribute.KeyValue{attribute.String(key, v.Hex())}
	case time.Time:
		return []attribute.KeyValue{attribute.String(key, v.UTC().Format(time.RFC3339))}
	}

	switch field.Kind() {
	case reflect.String:
		return []attribute.KeyValue{attribute.String(key, field.String())}
	case reflect.Bool:
		return []attribute.KeyValue{attribute.Bool(key, field.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return []attribute.KeyValue{attribute.Int64(key, field.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return []attribute.KeyValue{attribute.Int64(key, int64(field.Uint()))}
	case reflect.Float32, reflect.Float64:
		return []attribute.KeyValue{attribute.Float64(key, field.Float())}
	case reflect.Slice, reflect.Array:
		if field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		values := make([]string, field.Len())
		for j := range values {
			values[j] = field.Index(j).String()
		}
		return []attribute.KeyValue{attribute.StringSlice(key, values)}
	case reflect.Struct, reflect.Ptr:
		return traceAttributes(field)
	case reflect.Map:
		if field.Type().Key().Kind() != reflect.String {
			return nil
		}
		var attrs []attribute.KeyValue
		iter := field.MapRange()
		for iter.Next() {
			attrs = append(attrs, fieldAttributes(key+"."+iter.Key().String(), iter.Value())...)
		}
		return attrs
	}
	return nil
}

func prettifyFuncName(full string) string {
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	// 去掉編譯器附加的 -fm、.funcN
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(full, ".func"); i >= 0 {
		full = full[:i]
	}
	// "pkg.(*Type).Method" -> "Type.Method"
	if _, rest, ok := strings.Cut(full, "."); ok {
		full = rest
	}
	full = strings.NewReplacer("(*", "", "(", "", ")", "").Replace(full)
	if open := strings.Index(full, "["); open >= 0 {
		if closing := strings.Index(full, "]"); closing > open {
			full = full[:open] + full[closing+1:]
		}
	}
	return full
}

func spanNameFromGin(c *gin.Context) string {
	if hn := c.HandlerName(); hn != "" {
		return prettifyFuncName(hn)
	}
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

func callerFuncName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		return fn.Name()
	}
	return ""
}
