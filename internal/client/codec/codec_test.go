package codec

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/stretchr/testify/require"
)

func sampleBundle() models.EvidenceBundle {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return models.EvidenceBundle{
		TargetDate: "2024-03-01",
		Photo: &models.Photo{
			Name:     "IMG_0001.jpg",
			MimeType: "image/jpeg",
			Data:     []byte{0xff, 0xd8, 0xff, 0xe0},
			TakenAt:  at,
			Width:    4032,
			Height:   3024,
			Exif:     map[string]string{"Model": "Pixel", "ISO": "100"},
			Location: &models.Location{Latitude: 51.5, Longitude: -0.12},
		},
		Messages: []models.Message{
			{ID: "m1", Sender: "alex", Text: "good morning", SentAt: at.Add(time.Minute), Platform: "sms"},
			{ID: "m2", Sender: "sam", Text: "see you tonight", SentAt: at.Add(time.Hour)},
		},
		Documents: []models.Document{{Name: "lease.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.7")}},
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := sampleBundle()
	out, err := Unmarshal(Marshal(in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestMarshal_IsDeterministic(t *testing.T) {
	a := Marshal(sampleBundle())
	for i := 0; i < 20; i++ {
		require.Equal(t, a, Marshal(sampleBundle()), "map ordering must not leak into the encoding")
	}
}

func TestMarshal_MessagesOnly(t *testing.T) {
	in := models.EvidenceBundle{TargetDate: "2024-03-05", Messages: []models.Message{{Text: "only text"}}}
	out, err := Unmarshal(Marshal(in))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestMarshal_EmptyLocationKeepsPresence(t *testing.T) {
	in := models.EvidenceBundle{TargetDate: "2024-03-05", Photo: &models.Photo{Name: "a.png", Location: &models.Location{}}}
	out, err := Unmarshal(Marshal(in))
	require.NoError(t, err)
	require.NotNil(t, out.Photo.Location)
}

func TestUnmarshal_Truncated(t *testing.T) {
	data := Marshal(sampleBundle())
	_, err := Unmarshal(data[:len(data)-3])
	require.ErrorIs(t, err, ErrMalformed)
}

func TestUnmarshal_UnsupportedVersion(t *testing.T) {
	data := []byte{0x78, 0x02} // field 15, varint 2
	_, err := Unmarshal(data)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestMarshalMessages_DiffersByOrder(t *testing.T) {
	a := []models.Message{{Text: "one"}, {Text: "two"}}
	b := []models.Message{{Text: "two"}, {Text: "one"}}
	require.NotEqual(t, MarshalMessages(a), MarshalMessages(b))
}
