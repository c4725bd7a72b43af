package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

func TestExport_Format(t *testing.T) {
	quotes := []domain.Quote{
		{Text: "Stay curious", Category: "Learning"},
	}

	out, err := Export(quotes)

	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"text\": \"Stay curious\",\n    \"category\": \"Learning\"\n  }\n]", string(out))
}

func TestExport_Empty(t *testing.T) {
	out, err := Export(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestImport_RoundTrip(t *testing.T) {
	collections := [][]domain.Quote{
		domain.SeedQuotes(),
		{
			{Text: "A", Category: "cat1"},
			{Text: "A", Category: "cat1"},
			{Text: "C \"quoted\" <b>", Category: domain.ServerCategory},
			{Text: "ünïcödé ✓", Category: "intl"},
		},
	}

	for _, c := range collections {
		doc, err := Export(c)
		require.NoError(t, err)

		got, err := Import(doc)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestImport_DropsInvalidElements(t *testing.T) {
	doc := `[{"text":"ok","category":"c"},{"text":"","category":"c"},{"foo":1}]`

	got, err := Import([]byte(doc))

	require.NoError(t, err)
	assert.Equal(t, []domain.Quote{{Text: "ok", Category: "c"}}, got)
}

func TestImport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantReason string
	}{
		{name: "no valid elements", doc: `[{"foo":1}]`, wantReason: ReasonNoValid},
		{name: "empty array", doc: `[]`, wantReason: ReasonNoValid},
		{name: "object top level", doc: `{"text":"a","category":"b"}`, wantReason: ReasonNotArray},
		{name: "string top level", doc: `"hello"`, wantReason: ReasonNotArray},
		{name: "null top level", doc: `null`, wantReason: ReasonNotArray},
		{name: "syntax error", doc: `[{"text":`, wantReason: "invalid JSON"},
		{name: "empty document", doc: ``, wantReason: "invalid JSON"},
		{name: "trailing data", doc: `[] []`, wantReason: "invalid JSON"},
		{name: "stray closing bracket", doc: `[{"text":"ok","category":"c"}] ]`, wantReason: "invalid JSON"},
		{name: "stray closing brace", doc: `[{"text":"ok","category":"c"}]}`, wantReason: "invalid JSON"},
		{name: "trailing whitespace is fine", doc: "[{\"foo\":1}]\n\t ", wantReason: ReasonNoValid},
		{name: "non-string fields", doc: `[{"text":1,"category":true}]`, wantReason: ReasonNoValid},
		{name: "blank strings", doc: `[{"text":"  ","category":"\t"}]`, wantReason: ReasonNoValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Import([]byte(tt.doc))

			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, domain.IsFormat(err))

			var format *domain.FormatError
			require.ErrorAs(t, err, &format)
			assert.Contains(t, format.Reason, tt.wantReason)
		})
	}
}

func TestImport_TrimsFields(t *testing.T) {
	got, err := Import([]byte(`[{"text":"  padded  ","category":" c "}]`))

	require.NoError(t, err)
	assert.Equal(t, []domain.Quote{{Text: "padded", Category: "c"}}, got)
}

func TestDecodeStrict(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc, err := Encode(domain.SeedQuotes())
		require.NoError(t, err)

		got, err := DecodeStrict(doc)

		require.NoError(t, err)
		assert.Equal(t, domain.SeedQuotes(), got)
	})

	t.Run("empty array is valid", func(t *testing.T) {
		got, err := DecodeStrict([]byte(`[]`))

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("one bad element rejects the whole document", func(t *testing.T) {
		_, err := DecodeStrict([]byte(`[{"text":"a","category":"b"},{"text":""}]`))

		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeStrict([]byte(`not json`))

		require.Error(t, err)
		assert.True(t, domain.IsFormat(err))
	})

	trailing := map[string]string{
		"stray closing bracket": `[{"text":"ok","category":"c"}] ]`,
		"stray closing brace":   `[{"text":"ok","category":"c"}]}`,
		"second document":       `[{"text":"ok","category":"c"}] [{"text":"ok","category":"c"}]`,
	}

	for name, doc := range trailing {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeStrict([]byte(doc))

			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, domain.IsFormat(err))
		})
	}
}

func TestEncodeDecodeQuote(t *testing.T) {
	q := domain.Quote{Text: "a", Category: "b"}

	doc, err := EncodeQuote(q)
	require.NoError(t, err)

	got, err := DecodeQuote(doc)
	require.NoError(t, err)
	assert.Equal(t, q, got)

	_, err = DecodeQuote([]byte(`{"text":""}`))
	require.Error(t, err)
}
