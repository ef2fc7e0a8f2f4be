package middleware

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"cnapi/internal/core"
	"cnapi/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	encodingBrotli = "br"
	encodingZstd   = "zstd"
	encodingGzip   = "gzip"
)

// 同分時的優先順序
var supportedEncodings = []string{encodingBrotli, encodingZstd, encodingGzip}

type compressMeta struct {
	Encoding       string `trace:"http.response.content_encoding"`
	AcceptEncoding string `trace:"http.request.accept_encoding"`
}

type encoder interface {
	io.WriteCloser
	Flush() error
}

// Compress 依 Accept-Encoding 壓縮回應（br / zstd / gzip）
type Compress struct {
	trace *telemetry.Trace
}

func NewCompress(trace *telemetry.Trace) *Compress {
	return &Compress{trace: trace}
}

func (m *Compress) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		// promhttp 與 pprof 自行處理輸出
		if strings.HasPrefix(endpoint, "/metrics") || strings.HasPrefix(c.Request.URL.Path, "/debug/pprof") {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		encoding := negotiateEncoding(c.GetHeader("Accept-Encoding"))
		if encoding == "" || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCompressMiddleware))
		m.trace.ApplyTraceAttributes(span, compressMeta{Encoding: encoding, AcceptEncoding: c.GetHeader("Accept-Encoding")})
		end(nil)

		writer := &compressWriter{ResponseWriter: c.Writer, encoding: encoding}
		c.Writer = writer
		defer func() {
			_ = writer.Close()
			c.Writer = writer.ResponseWriter
		}()
		c.Next()
	}
}

// negotiateEncoding 取 q 值最高者；q=0 代表拒絕
func negotiateEncoding(header string) string {
	if header == "" {
		return ""
	}
	weights := make(map[string]float64, 4)
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		weights[name] = q
	}

	best, bestQ := "", 0.0
	for _, enc := range supportedEncodings {
		q, ok := weights[enc]
		if !ok {
			q, ok = weights["*"]
		}
		if ok && q > bestQ {
			best, bestQ = enc, q
		}
	}
	return best
}

// compressWriter 第一次寫入才建立 encoder，空 body 與 204/304 不壓縮
type compressWriter struct {
	gin.ResponseWriter
	encoding string
	encoder  encoder
	bypass   bool
}

func (w *compressWriter) start() {
	if w.encoder != nil || w.bypass {
		return
	}
	header := w.ResponseWriter.Header()
	status := w.ResponseWriter.Status()
	if status == http.StatusNoContent || status == http.StatusNotModified || header.Get("Content-Encoding") != "" {
		w.bypass = true
		return
	}
	header.Set("Content-Encoding", w.encoding)
	header.Del("Content-Length")

	switch w.encoding {
	case encodingBrotli:
		w.encoder = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
	case encodingZstd:
		enc, err := zstd.NewWriter(w.ResponseWriter, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			header.Del("Content-Encoding")
			w.bypass = true
			return
		}
		w.encoder = enc
	default:
		enc, err := gzip.NewWriterLevel(w.ResponseWriter, gzip.DefaultCompression)
		if err != nil {
			header.Del("Content-Encoding")
			w.bypass = true
			return
		}
		w.encoder = enc
	}
}

func (w *compressWriter) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	w.start()
	if w.bypass {
		return w.ResponseWriter.Write(data)
	}
	return w.encoder.Write(data)
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *compressWriter) Flush() {
	if w.encoder != nil {
		_ = w.encoder.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *compressWriter) Close() error {
	if w.encoder == nil {
		return nil
	}
	err := w.encoder.Close()
	w.encoder = nil
	w.bypass = true
	return err
}
