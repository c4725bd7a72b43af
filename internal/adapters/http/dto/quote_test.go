package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

func TestNewSyncResponse(t *testing.T) {
	resp := NewSyncResponse(app.SyncReport{
		Fetched: 2,
		Total:   5,
		Status:  domain.SyncStatus{State: domain.SyncSucceeded, Message: domain.MessageSynced},
	})

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"skipped":false,"fetched":2,"total":5,"status":{"state":"succeeded","message":"Sync complete. Server data synced."}}`,
		string(out))
}

func TestNewStateResponse(t *testing.T) {
	t.Run("without last displayed", func(t *testing.T) {
		resp := NewStateResponse(app.State{Filter: "all", Status: domain.IdleStatus()})

		out, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"filter":"all","categories":[],"status":{"state":"idle"},"total":0}`, string(out))
	})

	t.Run("with last displayed", func(t *testing.T) {
		last := domain.Quote{Text: "A", Category: "B"}

		resp := NewStateResponse(app.State{
			Filter:        "B",
			Categories:    []string{"B"},
			LastDisplayed: &last,
			Status:        domain.IdleStatus(),
			Total:         1,
		})

		require.NotNil(t, resp.LastDisplayed)
		assert.Equal(t, QuoteResponse{Text: "A", Category: "B"}, *resp.LastDisplayed)
		assert.Equal(t, []string{"B"}, resp.Categories)
	})
}

func TestListedQuote_JSON(t *testing.T) {
	out, err := json.Marshal(ListedQuote{QuoteResponse: QuoteResponse{Text: "A", Category: "B"}, Position: 3})

	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"A","category":"B","position":3}`, string(out))
}
