package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTour = `{
	"id": "dashboard-intro",
	"version": "1.0.0",
	"name": "Dashboard intro",
	"trigger": {"mode": "auto", "autoConditions": {"firstVisit": true}},
	"pages": [{
		"urlPattern": "*/dashboard*",
		"urlMatchMode": "glob",
		"steps": [
			{"id": "s1", "element": "#menu", "elementFallback": ["nav"], "title": "Menu", "content": "Start here", "position": "bottom"},
			{"id": "s2", "title": "Done", "content": "Bye", "condition": {"elementExists": "#report"}}
		]
	}],
	"settings": {"allowSkip": true, "showProgress": true, "overlayOpacity": 0.5, "theme": "dark", "spotlightPadding": 4}
}`

func TestDecodeTour(t *testing.T) {
	tour, err := schema.DecodeTour([]byte(validTour))
	require.NoError(t, err)

	assert.Equal(t, "dashboard-intro", tour.ID)
	assert.Equal(t, domain.TriggerAuto, tour.Trigger.Mode)
	require.NotNil(t, tour.Trigger.AutoConditions)
	assert.True(t, tour.Trigger.AutoConditions.FirstVisit)
	require.Len(t, tour.Pages, 1)
	assert.Equal(t, domain.MatchGlob, tour.Pages[0].URLMatchMode)
	assert.Equal(t, []string{"#menu", "nav"}, tour.Pages[0].Steps[0].Selectors())
	assert.Equal(t, "#report", tour.Pages[0].Steps[1].Condition.ElementExists)
	assert.Equal(t, 4.0, tour.Settings.Padding())
	assert.Equal(t, domain.ScrollSmooth, tour.Settings.Scroll())
}

func TestDecodeTour_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"id":`},
		{"missing id", `{"name": "x", "pages": [{"urlPattern": "a", "steps": [{"id": "s", "title": "t", "content": "c"}]}]}`},
		{"empty id", `{"id": "", "name": "x", "pages": [{"urlPattern": "a", "steps": [{"id": "s", "title": "t", "content": "c"}]}]}`},
		{"no pages", `{"id": "t", "name": "x", "pages": []}`},
		{"page without steps", `{"id": "t", "name": "x", "pages": [{"urlPattern": "a", "steps": []}]}`},
		{"step without title", `{"id": "t", "name": "x", "pages": [{"urlPattern": "a", "steps": [{"id": "s", "content": "c"}]}]}`},
		{"bad trigger mode", `{"id": "t", "name": "x", "trigger": {"mode": "sometimes"}, "pages": [{"urlPattern": "a", "steps": [{"id": "s", "title": "t", "content": "c"}]}]}`},
		{"opacity out of range", `{"id": "t", "name": "x", "settings": {"overlayOpacity": 3}, "pages": [{"urlPattern": "a", "steps": [{"id": "s", "title": "t", "content": "c"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.DecodeTour([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTour)
		})
	}
}

func TestDecodeTours_PartialFailure(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(validTour),
		json.RawMessage(`{"name": "no id"}`),
		json.RawMessage(`{"id": "bad", "name": "x", "pages": []}`),
	}

	tours, err := schema.DecodeTours(raws)
	require.Len(t, tours, 1)
	assert.Equal(t, "dashboard-intro", tours[0].ID)

	require.Error(t, err)
	errs := schema.ValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), `"#1"`)
	assert.Contains(t, errs[1].Error(), `"bad"`)
}

func TestDecodeDocument(t *testing.T) {
	t.Run("json array", func(t *testing.T) {
		tours, err := schema.DecodeDocument("tours.json", []byte("["+validTour+"]"))
		require.NoError(t, err)
		assert.Len(t, tours, 1)
	})

	t.Run("json object", func(t *testing.T) {
		tours, err := schema.DecodeDocument("tour.json", []byte(validTour))
		require.NoError(t, err)
		assert.Len(t, tours, 1)
	})

	t.Run("yaml", func(t *testing.T) {
		doc := `
id: settings-tour
version: "2"
name: Settings
pages:
  - urlPattern: /settings
    urlMatchMode: contains
    steps:
      - id: s1
        title: Profile
        content: Edit your profile
        element: "#profile"
settings:
  allowSkip: true
  spotlightPadding: 12
`
		tours, err := schema.DecodeDocument("settings.yaml", []byte(doc))
		require.NoError(t, err)
		require.Len(t, tours, 1)
		assert.Equal(t, "settings-tour", tours[0].ID)
		assert.Equal(t, "2", tours[0].Version)
		assert.Equal(t, 12.0, tours[0].Settings.Padding())
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := schema.DecodeDocument("bad.yml", []byte("id: [unclosed"))
		assert.Error(t, err)
	})
}

func TestRaw(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal(schema.Raw(), &doc))
	assert.Equal(t, "ClickPath tour", doc["title"])
}
