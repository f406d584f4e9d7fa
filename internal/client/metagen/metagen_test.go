package metagen

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func mixedBundle() models.EvidenceBundle {
	return models.EvidenceBundle{
		TargetDate: "2024-03-01",
		Photo: &models.Photo{
			Name: "IMG_0001.jpg", MimeType: "image/jpeg", Data: make([]byte, 100),
			TakenAt: day, Location: &models.Location{Latitude: 1, Longitude: 2},
		},
		Messages: []models.Message{
			{Sender: "bob", Text: "see you at noon", SentAt: day.Add(time.Hour), Platform: "sms"},
			{Sender: "alice", Text: "ok", SentAt: day, Platform: "signal"},
		},
	}
}

func TestGenerate_MixedBundle(t *testing.T) {
	d := Generate(mixedBundle(), Options{CollectionMethod: "inbox", FilterApproved: true, FilterScore: 0.9, Now: day})

	assert.Equal(t, models.ContentMixed, d.Content.Type)
	assert.Equal(t, 3, d.Content.ItemCount)
	assert.Equal(t, int64(100+len("see you at noon")+len("ok")), d.Content.ByteSize)
	assert.Equal(t, models.UploadPending, d.Upload.Status)
	assert.Zero(t, d.Upload.Attempts)
	assert.False(t, d.Verification.IsSet())

	assert.Equal(t, "2024-03-01", d.Temporal.TargetDate)
	assert.Equal(t, day, d.Temporal.PackageTime)
	assert.Nil(t, d.Temporal.UploadTime)

	require.NotNil(t, d.Photo)
	assert.Equal(t, int64(100), d.Photo.Size)
	require.NotNil(t, d.Location)

	require.NotNil(t, d.Messages)
	assert.Equal(t, []string{"alice", "bob"}, d.Messages.Senders)
	assert.Equal(t, []string{"signal", "sms"}, d.Messages.Platforms)
	assert.Equal(t, day, d.Messages.FirstAt)
	assert.Equal(t, day.Add(time.Hour), d.Messages.LastAt)

	assert.Equal(t, "Evidence for March 1, 2024", d.Display.Title)
	assert.Equal(t, "1 photo, 2 messages", d.Display.Subtitle)
	assert.Equal(t, "see you at noon", d.Display.Preview)
	assert.Contains(t, d.Display.Tags, "photo")
	assert.Equal(t, 1, d.Display.Priority)
	assert.True(t, d.Processing.FilterApproved)
}

func TestGenerate_Idempotent(t *testing.T) {
	a := Generate(mixedBundle(), Options{Now: day})
	b := Generate(mixedBundle(), Options{Now: day.Add(time.Hour)})

	assert.Equal(t, a.PackageID, b.PackageID)
	assert.Equal(t, a.Content.Type, b.Content.Type)
	assert.Equal(t, a.Display, b.Display)
}

func TestPackageID_Inputs(t *testing.T) {
	base := mixedBundle()
	id := PackageID(base)
	require.True(t, strings.HasPrefix(id, "ev_"))

	otherDate := mixedBundle()
	otherDate.TargetDate = "2024-03-02"
	assert.NotEqual(t, id, PackageID(otherDate))

	// text beyond the first 50 characters does not affect the id
	long := strings.Repeat("a", 50)
	x, y := mixedBundle(), mixedBundle()
	x.Messages[0].Text = long + "tail-one"
	y.Messages[0].Text = long + "tail-two"
	assert.Equal(t, PackageID(x), PackageID(y))

	noPhoto := mixedBundle()
	noPhoto.Photo = nil
	assert.NotEqual(t, id, PackageID(noPhoto))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		b    models.EvidenceBundle
		want models.ContentType
	}{
		{"empty", models.EvidenceBundle{}, models.ContentUnknown},
		{"photo", models.EvidenceBundle{Photo: &models.Photo{}}, models.ContentPhoto},
		{"messages", models.EvidenceBundle{Messages: []models.Message{{Text: "x"}}}, models.ContentMessages},
		{"documents", models.EvidenceBundle{Documents: []models.Document{{Name: "a.pdf"}}}, models.ContentDocuments},
		{"mixed", models.EvidenceBundle{Photo: &models.Photo{}, Documents: []models.Document{{}}}, models.ContentMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.b))
		})
	}
}

func TestGenerate_DisplayEdgeCases(t *testing.T) {
	long := strings.Repeat("é", 200)
	d := Generate(models.EvidenceBundle{
		TargetDate: "not-a-date",
		Messages:   []models.Message{{Text: long}},
	}, Options{ManualOverride: true, Now: day})

	assert.Equal(t, "Evidence for not-a-date", d.Display.Title)
	assert.Equal(t, "1 message", d.Display.Subtitle)
	assert.True(t, strings.HasSuffix(d.Display.Preview, "..."))
	assert.Equal(t, previewLen+3, len([]rune(d.Display.Preview)))
	assert.Equal(t, 2, d.Display.Priority)
	assert.Contains(t, d.Display.Tags, "needs-attention")

	docs := Generate(models.EvidenceBundle{
		TargetDate: "2024-03-01",
		Documents:  []models.Document{{Name: "a.pdf", Data: []byte("12")}, {Name: "b.pdf"}},
	}, Options{Now: day})
	assert.Equal(t, "a.pdf, b.pdf", docs.Display.Preview)
	assert.Equal(t, int64(2), docs.Documents.TotalSize)
}
