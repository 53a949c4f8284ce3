package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "/services/reports/rpt-123", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"factMap": {
				"0!T": {
					"rows": [
						{"dataCells": [{"label": "J. Smith"}, {"label": "Working - Contacted"}, {"label": "4", "value": 4}]}
					]
				}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, StaticToken("secret"))

	payload, err := client.FetchReport(context.Background(), "rpt-123")
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Equal(t, "rpt-123", payload.ReportID)
	require.Contains(t, payload.FactMap, "0!T")
	require.Len(t, payload.FactMap["0!T"].Rows, 1)
	assert.Equal(t, "J. Smith", payload.FactMap["0!T"].Rows[0].DataCells[0].Label)
}

func TestFetchReportServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "report not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, StaticToken("secret"))

	_, err := client.FetchReport(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchReportTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed on purpose

	client := NewClient(srv.URL, StaticToken("secret"))

	_, err := client.FetchReport(context.Background(), "rpt-123")
	require.Error(t, err)
}
