package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type logRecord struct {
	level string
	msg   string
	args  []any
}

type spyLogger struct {
	records []logRecord
}

func (l *spyLogger) Info(msg string, args ...any) {
	l.records = append(l.records, logRecord{level: "info", msg: msg, args: args})
}

func (l *spyLogger) Warn(msg string, args ...any) {
	l.records = append(l.records, logRecord{level: "warn", msg: msg, args: args})
}

// argValue fetches the value following a key in slog-style key-value args
func argValue(t *testing.T, args []any, key string) any {
	t.Helper()
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	t.Fatalf("key %q not found in log args", key)
	return nil
}

func TestLoggerMiddleware(t *testing.T) {
	serve := func(t *testing.T, handler http.HandlerFunc) (*spyLogger, *http.Response, string) {
		t.Helper()

		l := &spyLogger{}
		srv := httptest.NewServer(LoggerMiddleware(l)(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return l, resp, string(body)
	}

	t.Run("logs served request", func(t *testing.T) {
		l, resp, body := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("hi"))
		})

		require.Equal(t, http.StatusTeapot, resp.StatusCode)
		require.Equal(t, "hi", body, "middleware must not mangle the response")

		require.Len(t, l.records, 1, "logger should be called once")
		record := l.records[0]
		require.Equal(t, "info", record.level)
		require.Equal(t, "request served", record.msg)
		require.Equal(t, "GET", argValue(t, record.args, "method"))
		require.Equal(t, "/test", argValue(t, record.args, "uri"))
		require.Equal(t, http.StatusTeapot, argValue(t, record.args, "status"))
		require.Equal(t, 2, argValue(t, record.args, "size"), "size should be the two bytes of 'hi'")
		require.NotEmpty(t, argValue(t, record.args, "duration"))
		require.NotEmpty(t, argValue(t, record.args, "remote"))
	})

	t.Run("server errors log as warning", func(t *testing.T) {
		l, resp, _ := serve(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Len(t, l.records, 1)
		require.Equal(t, "warn", l.records[0].level)
	})

	t.Run("implicit 200 recorded", func(t *testing.T) {
		l, resp, _ := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, http.StatusOK, argValue(t, l.records[0].args, "status"))
	})
}
