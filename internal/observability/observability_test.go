package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseCloudTraceContext(t *testing.T) {
	t.Parallel()

	info, sc, ok := parseCloudTraceContext("105445aa7843bc8bf206b12000100000/1;o=1")
	require.True(t, ok)
	require.Equal(t, "105445aa7843bc8bf206b12000100000", info.TraceID)
	require.Equal(t, "0000000000000001", info.SpanID)
	require.True(t, info.Sampled)
	require.True(t, sc.IsRemote())

	for _, bad := range []string{"", "abc/1", "105445aa7843bc8bf206b12000100000", "105445aa7843bc8bf206b12000100000/zz"} {
		_, _, ok := parseCloudTraceContext(bad)
		require.False(t, ok, bad)
	}
}

func TestFormatCloudTraceHeader(t *testing.T) {
	t.Parallel()

	require.Empty(t, formatCloudTraceHeader(TraceInfo{}))
	require.Equal(t, "abc/def;o=1", formatCloudTraceHeader(TraceInfo{TraceID: "abc", SpanID: "def", Sampled: true}))
}

func TestTraceMiddlewareStoresInfo(t *testing.T) {
	t.Parallel()

	var got TraceInfo
	h := TraceMiddleware("demo")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = Trace(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(cloudTraceHeader, "105445aa7843bc8bf206b12000100000/1;o=1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "demo", got.ProjectID)
	require.Equal(t, "105445aa7843bc8bf206b12000100000", got.TraceID)
}

func TestFromContextDefaultsToNoop(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))
	logger := zap.NewExample()
	require.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
}

func TestRequestLoggerLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	for status, level := range map[int]zapcore.Level{
		http.StatusOK:                  zapcore.InfoLevel,
		http.StatusNotFound:            zapcore.WarnLevel,
		http.StatusInternalServerError: zapcore.ErrorLevel,
	} {
		h := InjectLogger(logger)(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})))
		req := httptest.NewRequest(http.MethodPost, "/nav/select", nil)
		req.Header.Set("HX-Request", "true")
		h.ServeHTTP(httptest.NewRecorder(), req)

		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		require.Equal(t, level, entries[0].Level)
		fields := entries[0].ContextMap()
		require.Equal(t, int64(status), fields["status"])
		require.Equal(t, true, fields["htmx"])
		require.Equal(t, "/nav/select", fields["path"])
	}
}

func TestRecoveryAnswers500(t *testing.T) {
	t.Parallel()

	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/navselect", SanitizeRoute("/nav\r\nselect"))
	require.Equal(t, "/", SanitizeRoute(""))
	require.Equal(t, "ab", SanitizeField("a\x00b"))
}

func TestSanitizeFieldFlattensAndTruncates(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Saturday? Around 10am", SanitizeField("Saturday?\r\n  Around 10am\n"))
	require.Empty(t, SanitizeField(""))

	long := strings.Repeat("é", fieldLimit+10)
	got := SanitizeField(long)
	require.Equal(t, fieldLimit+1, utf8.RuneCountInString(got))
	require.True(t, strings.HasSuffix(got, "…"))
	require.Equal(t, strings.Repeat("é", fieldLimit), SanitizeField(strings.Repeat("é", fieldLimit)))
}
