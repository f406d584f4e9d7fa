// Package collect supplies evidence candidates from a capture inbox on disk
// and vets bundles with a rule-based content filter.
//
// Inbox layout, one directory per target date:
//
//	<root>/2024-03-01/photos/*        candidate photos, the largest wins
//	<root>/2024-03-01/messages.json   JSON array of messages
//	<root>/2024-03-01/documents/*     attached documents
package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

type Inbox struct {
	root string
}

func NewInbox(root string) *Inbox {
	return &Inbox{root: root}
}

func (in *Inbox) dir(date string, parts ...string) string {
	return filepath.Join(append([]string{in.root, date}, parts...)...)
}

// files lists regular files of dir sorted by name. A missing dir is empty.
func files(dir string) ([]fs.FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []fs.FileInfo
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

// CandidatePhoto picks the best-quality photo of the day, taken to be the
// largest file. Ties go to the first name.
func (in *Inbox) CandidatePhoto(ctx context.Context, date string) (*models.Photo, error) {
	dir := in.dir(date, "photos")
	list, err := files(dir)
	if err != nil || len(list) == 0 {
		return nil, err
	}

	best := list[0]
	for _, fi := range list[1:] {
		if fi.Size() > best.Size() {
			best = fi
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, best.Name()))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	return &models.Photo{
		Name:     best.Name(),
		MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(best.Name()))),
		Data:     data,
		TakenAt:  best.ModTime().UTC(),
	}, nil
}

// CandidateMessages returns up to max messages of the day in send order.
func (in *Inbox) CandidateMessages(ctx context.Context, date string, max int) ([]models.Message, error) {
	data, err := os.ReadFile(in.dir(date, "messages.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse messages for %s: %w", date, err)
	}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].SentAt.Before(msgs[j].SentAt) })
	if max > 0 && len(msgs) > max {
		msgs = msgs[:max]
	}
	return msgs, nil
}

func (in *Inbox) CandidateDocuments(ctx context.Context, date string) ([]models.Document, error) {
	dir := in.dir(date, "documents")
	list, err := files(dir)
	if err != nil {
		return nil, err
	}
	docs := make([]models.Document, 0, len(list))
	for _, fi := range list {
		data, err := os.ReadFile(filepath.Join(dir, fi.Name()))
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		docs = append(docs, models.Document{
			Name:     fi.Name(),
			MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(fi.Name()))),
			Data:     data,
		})
	}
	return docs, nil
}

// Dates lists the target dates present in the inbox, oldest first.
func (in *Inbox) Dates() ([]string, error) {
	entries, err := os.ReadDir(in.root)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
