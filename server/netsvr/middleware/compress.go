package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressConfig 壓縮等級
type CompressConfig struct {
	GzipLevel int
	ZstdLevel zstd.EncoderLevel
}

var DefaultCompressConfig = CompressConfig{
	GzipLevel: gzip.BestSpeed,
	ZstdLevel: zstd.SpeedFastest,
}

type encoder interface {
	io.Writer
	Flush() error
	Close() error
}

var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

func acquire(enc string, w io.Writer) encoder {
	switch enc {
	case "zstd":
		if v := zstdPool.Get(); v != nil {
			zw := v.(*zstd.Encoder)
			zw.Reset(w)
			return zw
		}
		zw, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(DefaultCompressConfig.ZstdLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil
		}
		return zw
	default:
		if v := gzipPool.Get(); v != nil {
			gw := v.(*gzip.Writer)
			gw.Reset(w)
			return gw
		}
		gw, err := gzip.NewWriterLevel(w, DefaultCompressConfig.GzipLevel)
		if err != nil {
			return nil
		}
		return gw
	}
}

func release(e encoder) {
	_ = e.Close()
	switch v := e.(type) {
	case *zstd.Encoder:
		zstdPool.Put(v)
	case *gzip.Writer:
		gzipPool.Put(v)
	}
}

// negotiate 依 Accept-Encoding 選編碼，zstd 優先
func negotiate(accept string) string {
	accept = strings.ToLower(accept)
	switch {
	case strings.Contains(accept, "zstd"):
		return "zstd"
	case strings.Contains(accept, "gzip"):
		return "gzip"
	default:
		return ""
	}
}

func isNoBodyStatus(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

// compressible 文字類回應才壓縮；overlay PNG 本身已壓縮
func compressible(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.HasPrefix(ct, "application/json") ||
		strings.HasPrefix(ct, "text/") ||
		strings.HasPrefix(ct, "application/yaml")
}

// compressWriter 延後到送出 header 時才決定是否壓縮
type compressWriter struct {
	http.ResponseWriter
	enc     string
	w       encoder
	started bool
}

func (cw *compressWriter) start(code int, peek []byte) {
	cw.started = true
	h := cw.Header()
	if h.Get("Content-Type") == "" && len(peek) > 0 {
		h.Set("Content-Type", http.DetectContentType(peek))
	}
	if !isNoBodyStatus(code) && h.Get("Content-Encoding") == "" && compressible(h.Get("Content-Type")) {
		if e := acquire(cw.enc, cw.ResponseWriter); e != nil {
			h.Del("Content-Length")
			h.Set("Content-Encoding", cw.enc)
			cw.w = e
		}
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.started {
		return
	}
	cw.start(code, nil)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.started {
		cw.start(http.StatusOK, b)
	}
	if cw.w != nil {
		return cw.w.Write(b)
	}
	return cw.ResponseWriter.Write(b)
}

func (cw *compressWriter) Flush() {
	if cw.w != nil {
		_ = cw.w.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

func (cw *compressWriter) finish() {
	if cw.w != nil {
		release(cw.w)
		cw.w = nil
	}
}

// Compression 對 JSON / 文字回應做 zstd 或 gzip 壓縮
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enc := negotiate(r.Header.Get("Accept-Encoding"))
		if enc == "" || r.Method == http.MethodHead || r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Add("Vary", "Accept-Encoding")
		cw := &compressWriter{ResponseWriter: w, enc: enc}
		defer cw.finish()
		next.ServeHTTP(cw, r)
	})
}
