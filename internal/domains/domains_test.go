package domains

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextslot/media-service/internal/logging"
	"github.com/nextslot/media-service/internal/provider"
)

var testNamer = Namer{Base: "nextslot.in", TXTPrefix: "_nextslot-verify"}

type memStore struct {
	providers []provider.Provider
	updates   map[string]Targets
	listErr   error
	updateErr error
}

func (m *memStore) ListWithCustomDomain(context.Context) ([]provider.Provider, error) {
	return m.providers, m.listErr
}

func (m *memStore) UpdateDNSTargets(_ context.Context, id, cname, txt string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.updates == nil {
		m.updates = map[string]Targets{}
	}
	m.updates[id] = Targets{CNAMETarget: cname, TXTRecordName: txt}
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*provider.Provider, error) {
	for i := range m.providers {
		if m.providers[i].ID == id {
			p := m.providers[i]
			return &p, nil
		}
	}
	return nil, provider.ErrNotFound
}

func TestCNAMETarget(t *testing.T) {
	got, err := CNAMETarget("okmentor", "nextslot.in")
	require.NoError(t, err)
	assert.Equal(t, "okmentor.nextslot.in", got)

	got, err = CNAMETarget(" Ramesh Salon ", ".NextSlot.in.")
	require.NoError(t, err)
	assert.Equal(t, "ramesh-salon.nextslot.in", got)

	_, err = CNAMETarget("!!!", "nextslot.in")
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestTXTRecordName(t *testing.T) {
	got, err := TXTRecordName("okmentor", "_nextslot-verify")
	require.NoError(t, err)
	assert.Equal(t, "_nextslot-verify-okmentor", got)

	got, err = TXTRecordName("okmentor", "")
	require.NoError(t, err)
	assert.Equal(t, "okmentor", got)

	got, err = TXTRecordName(strings.Repeat("a", 60), "_nextslot-verify")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 63)
	assert.False(t, strings.HasSuffix(got, "-"))

	_, err = TXTRecordName("", "_nextslot-verify")
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestLabelRejectsOverlongSlug(t *testing.T) {
	_, err := Label(strings.Repeat("a", 64))
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestSyncPersistsOnlyChangedProviders(t *testing.T) {
	store := &memStore{providers: []provider.Provider{
		{ID: "p1", BusinessName: "OK Mentor", Slug: "okmentor", CustomDomain: "book.okmentor.com"},
		{ID: "p2", BusinessName: "Ramesh Salon", Slug: "ramesh-salon", CustomDomain: "salon.example",
			CNAMETarget: "ramesh-salon.nextslot.in", TXTRecordName: "_nextslot-verify-ramesh-salon"},
		{ID: "p3", BusinessName: "Half Done", Slug: "half", CustomDomain: "half.example",
			CNAMETarget: "half.nextslot.in"},
	}}
	syncer := NewSyncer(store, testNamer, logging.Discard())

	results, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"cname_target", "txt_record_name"}, results[0].Updated)
	assert.Empty(t, results[1].Updated)
	assert.Equal(t, []string{"txt_record_name"}, results[2].Updated)

	assert.Equal(t, map[string]Targets{
		"p1": {CNAMETarget: "okmentor.nextslot.in", TXTRecordName: "_nextslot-verify-okmentor"},
		"p3": {CNAMETarget: "half.nextslot.in", TXTRecordName: "_nextslot-verify-half"},
	}, store.updates)
}

func TestSyncDryRunWritesNothing(t *testing.T) {
	store := &memStore{providers: []provider.Provider{
		{ID: "p1", Slug: "okmentor", CustomDomain: "book.okmentor.com"},
	}}

	results, err := NewSyncer(store, testNamer, logging.Discard()).Sync(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Updated)
	assert.Nil(t, store.updates)
}

func TestSyncSkipsInvalidSlug(t *testing.T) {
	store := &memStore{providers: []provider.Provider{
		{ID: "bad", Slug: "***", CustomDomain: "bad.example"},
		{ID: "p1", Slug: "okmentor", CustomDomain: "book.okmentor.com"},
	}}

	results, err := NewSyncer(store, testNamer, logging.Discard()).Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, ErrInvalidSlug)
	assert.Contains(t, store.updates, "p1")
	assert.NotContains(t, store.updates, "bad")
}

func TestSyncNoProviders(t *testing.T) {
	results, err := NewSyncer(&memStore{}, testNamer, logging.Discard()).Sync(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSyncPropagatesStoreErrors(t *testing.T) {
	_, err := NewSyncer(&memStore{listErr: errors.New("db down")}, testNamer, logging.Discard()).
		Sync(context.Background(), false)
	assert.Error(t, err)

	store := &memStore{
		providers: []provider.Provider{{ID: "p1", Slug: "okmentor", CustomDomain: "x.example"}},
		updateErr: errors.New("db down"),
	}
	_, err = NewSyncer(store, testNamer, logging.Discard()).Sync(context.Background(), false)
	assert.Error(t, err)
}

func TestWriteInstructions(t *testing.T) {
	results := []Result{
		{
			Provider: provider.Provider{BusinessName: "OK Mentor", CustomDomain: "book.okmentor.com", CustomDomainType: "subdomain"},
			Targets:  Targets{CNAMETarget: "okmentor.nextslot.in", TXTRecordName: "_nextslot-verify-okmentor"},
			Updated:  []string{"cname_target", "txt_record_name"},
		},
		{
			Provider: provider.Provider{BusinessName: "Broken", CustomDomain: "broken.example"},
			Err:      ErrInvalidSlug,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInstructions(&buf, results, Sheet{Base: "nextslot.in", TTL: 3600, Applied: true}))
	out := buf.String()

	assert.Contains(t, out, "Found 2 provider(s) with custom domains")
	assert.Contains(t, out, "Value/Target: okmentor.nextslot.in")
	assert.Contains(t, out, "Name: _nextslot-verify-okmentor.book.okmentor.com")
	assert.Contains(t, out, "TTL: 3600")
	assert.Contains(t, out, "Updated provider record: cname_target, txt_record_name")
	assert.Contains(t, out, "Skipped: "+ErrInvalidSlug.Error())
	assert.Contains(t, out, "ramesh-salon.nextslot.in")
}

func TestWriteInstructionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInstructions(&buf, nil, Sheet{Base: "nextslot.in", TTL: 3600}))
	assert.Contains(t, buf.String(), "No providers with custom domains found")
}

func TestGetDNSHandler(t *testing.T) {
	store := &memStore{providers: []provider.Provider{
		{ID: "p1", Slug: "okmentor", CustomDomain: "book.okmentor.com"},
		{ID: "p2", Slug: "nodomain"},
	}}
	r := chi.NewRouter()
	r.Get("/providers/{id}/dns", NewHandler(store, testNamer, 3600).GetDNS)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers/p1/dns", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data dnsData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "okmentor.nextslot.in", env.Data.Targets.CNAMETarget)
	assert.False(t, env.Data.InSync)
	assert.Contains(t, env.Data.Instructions, "Pending update: cname_target, txt_record_name")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers/p2/dns", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/providers/zzz/dns", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
