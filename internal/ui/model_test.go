package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"

	"terragrip/internal/bulk"
	"terragrip/internal/config"
	"terragrip/internal/datasource/memory"
	"terragrip/internal/domain"
	"terragrip/internal/eventbus"
	"terragrip/internal/explore"
	"terragrip/internal/workspace"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	log := logr.Discard()
	bus := eventbus.New(log)
	store, err := memory.NewStore(log)
	require.NoError(t, err)
	memory.Seed(store)

	m, err := NewModel(bus, config.DefaultConfig(), store, store, bulk.NewService(store, bus, log), log)
	require.NoError(t, err)
	return m
}

func TestStaleFetchErrorIsDiscarded(t *testing.T) {
	m := newTestModel(t)
	eng := m.engines[domain.EntityDistricts]

	// First fetch is in flight when a second one supersedes it.
	stale := eng.NextQuery()
	_ = eng.NextQuery()

	m.Update(queryResultMsg{
		entity:  domain.EntityDistricts,
		version: stale.Version,
		err:     errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
	})
	require.Empty(t, m.errMsg, "error from a superseded fetch must not surface")

	// The in-flight fetch failing does surface.
	m.Update(queryResultMsg{
		entity:  domain.EntityDistricts,
		version: eng.Version(),
		err:     errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
	})
	require.Contains(t, m.errMsg, "connection refused")
}

func TestCurrentFetchErrorClearedByNextResult(t *testing.T) {
	m := newTestModel(t)
	eng := m.engines[domain.EntityDistricts]

	q := eng.NextQuery()
	m.Update(queryResultMsg{
		entity:  domain.EntityDistricts,
		version: q.Version,
		err:     errors.New("query canceled"),
	})
	require.NotEmpty(t, m.errMsg)

	q = eng.NextQuery()
	m.Update(queryResultMsg{
		entity:  domain.EntityDistricts,
		version: q.Version,
		result:  resultForQuery(t, m, q),
	})
	require.Empty(t, m.errMsg)
}

func TestPlanTabLinesStayWithinTerminalCharset(t *testing.T) {
	m := newTestModel(t)
	districts := m.store.Districts()
	require.NotEmpty(t, districts)
	d := districts[0]

	plan := &domain.Plan{ID: "p-charset", Name: "Charset", Districts: []domain.FeatureID{d.ID}}
	m.planRows = []explore.Row{
		contactRowFor(d.ID),
	}

	for _, tab := range []workspace.PlanTab{workspace.TabOverview, workspace.TabContacts} {
		for _, line := range m.planTabLines(plan, tab) {
			require.NotContains(t, line, "—", "tab %v renders an em dash: %q", tab, line)
		}
	}

	contacts := m.planTabLines(plan, workspace.TabContacts)
	require.Len(t, contacts, 1)
	require.Contains(t, contacts[0], " · ")
}

// contactRowFor builds a contact row bound to the given district.
func contactRowFor(id domain.FeatureID) explore.ContactRow {
	return explore.ContactRow{Contact: &domain.Contact{
		ID:         "c-charset",
		DistrictID: id,
		Name:       "Ana Diaz",
		Title:      "Director of Curriculum",
		Email:      "ana.diaz@example.org",
	}}
}

// resultForQuery runs the query against the model's source synchronously.
func resultForQuery(t *testing.T, m *Model, q explore.Query) explore.Result {
	t.Helper()
	res, err := m.source.Fetch(context.Background(), q)
	require.NoError(t, err)
	return res
}
