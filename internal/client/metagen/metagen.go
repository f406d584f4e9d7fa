// Package metagen derives the descriptor of an evidence bundle. It only
// shapes data and never touches storage.
package metagen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/common"
)

const (
	DescriptorVersion = "1.0"

	previewLen      = 120
	idMessagePrefix = 50
)

// Options carries processing provenance into the descriptor.
type Options struct {
	CollectionMethod string
	FilterApproved   bool
	FilterScore      float64
	ManualOverride   bool
	Warnings         []string
	// Now stamps package and modification times; zero means time.Now.
	Now time.Time
}

// PackageID is the content-derived id of a bundle. It depends only on the
// photo presence and name, the message count, the first 50 characters of the
// first message and the target date.
func PackageID(b models.EvidenceBundle) string {
	var sb strings.Builder
	if b.Photo != nil {
		sb.WriteString("photo:1|")
		sb.WriteString(b.Photo.Name)
	} else {
		sb.WriteString("photo:0|")
	}
	sb.WriteString("|messages:")
	sb.WriteString(strconv.Itoa(len(b.Messages)))
	sb.WriteString("|")
	if len(b.Messages) > 0 {
		sb.WriteString(truncateRunes(b.Messages[0].Text, idMessagePrefix))
	}
	sb.WriteString("|date:")
	sb.WriteString(b.TargetDate)

	sum := sha256.Sum256([]byte(sb.String()))
	return "ev_" + hex.EncodeToString(sum[:12])
}

// Classify returns the content type of b.
func Classify(b models.EvidenceBundle) models.ContentType {
	kinds := 0
	var only models.ContentType
	if b.Photo != nil {
		kinds++
		only = models.ContentPhoto
	}
	if len(b.Messages) > 0 {
		kinds++
		only = models.ContentMessages
	}
	if len(b.Documents) > 0 {
		kinds++
		only = models.ContentDocuments
	}
	switch kinds {
	case 0:
		return models.ContentUnknown
	case 1:
		return only
	default:
		return models.ContentMixed
	}
}

// Generate builds the descriptor of b. Apart from the timestamps taken from
// opts.Now the result is a pure function of its inputs. Verification hashes
// are left empty; packaging fills them in.
func Generate(b models.EvidenceBundle, opts Options) models.Descriptor {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	d := models.Descriptor{
		PackageID: PackageID(b),
		Version:   DescriptorVersion,
		Temporal: models.Temporal{
			TargetDate:   b.TargetDate,
			PackageTime:  now,
			LastModified: now,
		},
		Content: models.ContentSummary{
			Type:      Classify(b),
			ItemCount: b.ItemCount(),
			ByteSize:  b.ByteSize(),
		},
		Processing: models.Processing{
			CollectionMethod: opts.CollectionMethod,
			FilterApproved:   opts.FilterApproved,
			FilterScore:      opts.FilterScore,
			ManualOverride:   opts.ManualOverride,
			Warnings:         append([]string(nil), opts.Warnings...),
		},
		Upload: models.UploadInfo{Status: models.UploadPending},
	}

	if p := b.Photo; p != nil {
		d.Photo = &models.PhotoDetails{
			Name:     p.Name,
			MimeType: p.MimeType,
			Size:     int64(len(p.Data)),
			Width:    p.Width,
			Height:   p.Height,
			TakenAt:  p.TakenAt,
			Exif:     copyMap(p.Exif),
		}
		if p.Location != nil {
			loc := *p.Location
			d.Location = &loc
		}
	}

	if len(b.Messages) > 0 {
		d.Messages = messageDetails(b.Messages)
	}

	if len(b.Documents) > 0 {
		dd := &models.DocumentDetails{Count: len(b.Documents)}
		for _, doc := range b.Documents {
			dd.Names = append(dd.Names, doc.Name)
			dd.TotalSize += int64(len(doc.Data))
		}
		d.Documents = dd
	}

	d.Display = display(b, d)
	return d
}

func messageDetails(msgs []models.Message) *models.MessageDetails {
	md := &models.MessageDetails{Count: len(msgs)}
	senders := map[string]struct{}{}
	platforms := map[string]struct{}{}

	for i, m := range msgs {
		md.TotalCharacters += utf8.RuneCountInString(m.Text)
		if m.Sender != "" {
			senders[m.Sender] = struct{}{}
		}
		if m.Platform != "" {
			platforms[m.Platform] = struct{}{}
		}
		if i == 0 || m.SentAt.Before(md.FirstAt) {
			md.FirstAt = m.SentAt
		}
		if i == 0 || m.SentAt.After(md.LastAt) {
			md.LastAt = m.SentAt
		}
	}
	md.Senders = sortedKeys(senders)
	md.Platforms = sortedKeys(platforms)
	return md
}

func display(b models.EvidenceBundle, d models.Descriptor) models.Display {
	out := models.Display{
		Title:    "Evidence for " + humanDate(b.TargetDate),
		Category: "daily",
		Priority: 1,
	}

	var parts []string
	if b.Photo != nil {
		parts = append(parts, "1 photo")
		out.Tags = append(out.Tags, "photo")
	}
	if n := len(b.Messages); n > 0 {
		parts = append(parts, plural(n, "message"))
		out.Tags = append(out.Tags, "messages")
		out.Tags = append(out.Tags, d.Messages.Platforms...)
	}
	if n := len(b.Documents); n > 0 {
		parts = append(parts, plural(n, "document"))
		out.Tags = append(out.Tags, "documents")
	}
	if len(parts) == 0 {
		out.Subtitle = "No content"
		out.Priority = 0
	} else {
		out.Subtitle = strings.Join(parts, ", ")
	}

	switch {
	case len(b.Messages) > 0:
		out.Preview = truncateRunes(b.Messages[0].Text, previewLen)
		if utf8.RuneCountInString(b.Messages[0].Text) > previewLen {
			out.Preview += "..."
		}
	case b.Photo != nil:
		out.Preview = b.Photo.Name
	case len(b.Documents) > 0:
		out.Preview = strings.Join(d.Documents.Names, ", ")
	}

	if d.Processing.ManualOverride || len(d.Processing.Warnings) > 0 {
		out.Priority = 2
		out.Tags = append(out.Tags, "needs-attention")
	}
	return out
}

func humanDate(date string) string {
	t, err := time.Parse(common.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
