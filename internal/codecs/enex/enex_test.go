package enex

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/migrator/internal/core/domain"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-export SYSTEM "http://xml.evernote.com/pub/evernote-export3.dtd">
<en-export export-date="20240102T030405Z" application="Evernote" version="10.0">
  <note>
    <title>Weekly review</title>
    <content><![CDATA[<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">
<en-note><div>Wins&nbsp;this week</div><div><en-todo checked="true"/>ship release</div></en-note>]]></content>
    <created>20240101T080000Z</created>
    <updated>20240102T090000Z</updated>
    <tag>work</tag>
    <tag>review</tag>
  </note>
  <note>
    <title>Second</title>
    <content><![CDATA[<en-note>two</en-note>]]></content>
  </note>
</en-export>`

func TestParser_Format(t *testing.T) {
	assert.Equal(t, domain.FormatEnex, NewParser().Format())
}

func TestParser_Parse(t *testing.T) {
	notes, err := NewParser().Parse(context.Background(), "My Notes.enex", sample)
	require.NoError(t, err)
	require.Len(t, notes, 2)

	first := notes[0]
	assert.Equal(t, "Weekly review", first.Title)
	assert.Equal(t, "Wins this week\n\n- [x] ship release", first.Content)
	assert.Equal(t, []string{"work", "review"}, first.Tags)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), first.Created)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), first.Updated)
	assert.Equal(t, "My Notes.enex", first.Origin)

	second := notes[1]
	assert.Equal(t, "Second", second.Title)
	assert.Equal(t, "two", second.Content)
	assert.True(t, second.Created.IsZero())
	assert.NotEqual(t, first.ID, second.ID)
}

func TestParser_Errors(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), "notes.xml", sample)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = NewParser().Parse(context.Background(), "broken.enex", "not xml at all")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = NewParser().Parse(context.Background(), "other.enex", "<rss><channel/></rss>")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerator(t *testing.T) {
	now := time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC)
	g := NewGenerator(func() time.Time { return now })
	assert.Equal(t, domain.TargetEnex, g.Target())

	out, err := g.Generate(context.Background(), []domain.Note{
		{
			Title:   "Trip <Paris>",
			Content: "Pack list\n\n- [x] passport\n- [ ] charger\n\n![map](assets/map.png)",
			Tags:    []string{"travel"},
			Created: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
		},
		{Title: "Empty"},
	})
	require.NoError(t, err)

	doc := string(out)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<!DOCTYPE en-export`)
	assert.Contains(t, doc, `export-date="20250607T080910Z"`)
	assert.Contains(t, doc, `application="Migrator"`)
	assert.Contains(t, doc, `<title>Trip &lt;Paris&gt;</title>`)
	assert.Contains(t, doc, `<created>20240401T120000Z</created>`)
	assert.NotContains(t, doc, `<updated>`)
	assert.Contains(t, doc, `<tag>travel</tag>`)
	assert.Contains(t, doc, `<en-todo checked="true"></en-todo>`)
	assert.Contains(t, doc, `<![CDATA[`)
}

func TestGenerator_RoundTrip(t *testing.T) {
	g := NewGenerator(nil)
	in := []domain.Note{
		{Title: "One", Content: "first **bold**", Tags: []string{"a", "b"}, Created: time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)},
		{Title: "Two", Content: "- [ ] task"},
	}

	out, err := g.Generate(context.Background(), in)
	require.NoError(t, err)

	notes, err := NewParser().Parse(context.Background(), "export.enex", string(out))
	require.NoError(t, err)
	require.Len(t, notes, 2)

	for i := range in {
		assert.Equal(t, in[i].Title, notes[i].Title)
		assert.Equal(t, in[i].Content, notes[i].Content)
		assert.Equal(t, in[i].Tags, notes[i].Tags)
		assert.True(t, in[i].Created.Equal(notes[i].Created))
	}
}

func TestGenerator_ContentWithCDATATerminator(t *testing.T) {
	out, err := NewGenerator(nil).Generate(context.Background(), []domain.Note{{Title: "x", Content: "a ]]> b"}})
	require.NoError(t, err)

	notes, err := NewParser().Parse(context.Background(), "x.enex", string(out))
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "a ]]> b", notes[0].Content)
}
