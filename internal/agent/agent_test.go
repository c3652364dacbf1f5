package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilfiscal/fiscal-data-service/pkg/client"
)

// Every tool an agent references must exist in the toolset.
func TestAgentToolsAreKnown(t *testing.T) {
	known := make(map[string]bool)
	for _, name := range AllToolNames() {
		known[name] = true
	}

	for _, cfg := range append(SubAgents(), RootAgent) {
		for _, tool := range cfg.Tools {
			assert.Truef(t, known[tool], "agent %s references unknown tool %s", cfg.Name, tool)
		}
	}
}

func TestRootAgentRoutesToAllSubAgents(t *testing.T) {
	names := make(map[string]bool)
	for _, cfg := range SubAgents() {
		names[cfg.Name] = true
	}

	require.Len(t, RootAgent.SubAgents, len(names))
	for _, name := range RootAgent.SubAgents {
		assert.Truef(t, names[name], "root agent routes to unknown agent %s", name)
	}
}

func newToolset(t *testing.T, handler http.HandlerFunc) *Toolset {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewToolset(client.NewClient(server.URL))
}

func TestToolsetValidatesBeforeCalling(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the API")
	})
	ctx := context.Background()

	_, err := ts.SearchGovernmentEntity(ctx, "S", 10)
	assert.ErrorContains(t, err, "at least 2 characters")

	_, err = ts.GetEntityDetails(ctx, "  ")
	assert.ErrorContains(t, err, "entity code is required")

	_, err = ts.CompareEntities(ctx, []string{"016/020/32"})
	assert.ErrorContains(t, err, "at least 2 entity codes")

	_, err = ts.RankEntities(ctx, "bond_rating", client.RankOptions{})
	assert.ErrorContains(t, err, "unknown metric")

	_, err = ts.GetCountyFinancialSummary(ctx, "")
	assert.ErrorContains(t, err, "county name is required")
}

func TestToolsetPassesThrough(t *testing.T) {
	ts := newToolset(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/entities/016/020/32/fiscal-health", r.URL.Path)
		w.Write([]byte(`{"status":"success","data":{"code":"016/020/32","unit_name":"Village of Skokie","metrics":{}}}`))
	})

	report, err := ts.CalculateFiscalHealthScore(context.Background(), "016/020/32")
	require.NoError(t, err)
	assert.Equal(t, "Village of Skokie", report.UnitName)
}
