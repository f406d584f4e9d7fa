package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
)

// Rules is a content filter that rejects oversized bundles and bundles whose
// text mentions a blocked term.
type Rules struct {
	MaxBytes     int64
	BlockedTerms []string
}

func (r Rules) Evaluate(ctx context.Context, b models.EvidenceBundle) (models.FilterResult, error) {
	var problems []string

	if size := b.ByteSize(); r.MaxBytes > 0 && size > r.MaxBytes {
		problems = append(problems, fmt.Sprintf("bundle is %d bytes, limit is %d", size, r.MaxBytes))
	}

	var hits []string
	for _, term := range r.BlockedTerms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		for _, m := range b.Messages {
			if strings.Contains(strings.ToLower(m.Text), t) {
				hits = append(hits, term)
				break
			}
		}
	}
	if len(hits) > 0 {
		problems = append(problems, "blocked terms: "+strings.Join(hits, ", "))
	}

	if len(problems) > 0 {
		return models.FilterResult{Approved: false, Score: 0, Reasoning: strings.Join(problems, "; ")}, nil
	}

	score := 1.0
	if b.Photo == nil {
		score -= 0.25
	}
	if len(b.Messages) == 0 {
		score -= 0.25
	}
	return models.FilterResult{
		Approved:  true,
		Score:     score,
		Reasoning: fmt.Sprintf("%d items within limits", b.ItemCount()),
	}, nil
}
