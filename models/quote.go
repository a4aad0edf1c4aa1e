// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"strings"
	"time"
)

// Validation errors returned by [NewQuote] when the input cannot become a
// well-formed quote record.
var (
	// ErrEmptyQuoteText indicates that the quote text is empty or whitespace.
	ErrEmptyQuoteText = errors.New("quote text cannot be empty")
	// ErrEmptyQuoteAuthor indicates that the author name is empty or whitespace.
	ErrEmptyQuoteAuthor = errors.New("quote author cannot be empty")
)

// Quote represents a single entry of the curated quote collection as it is
// stored on the server. ID is empty until the record has been persisted.
type Quote struct {
	// ID is the server-assigned identifier of the quote. Empty for drafts
	// that have not been created on the server yet.
	ID string `json:"id,omitempty"`

	// Text is the quote body. Never empty once persisted.
	Text string `json:"quote"`

	// Author is the person the quote is attributed to. Never empty once
	// persisted.
	Author string `json:"author"`

	// Tags is the set of tag names attached to the quote. Order carries no
	// meaning; the set contains no empty and no duplicate entries.
	Tags []string `json:"tags"`

	// CreatedAt is the server-side creation timestamp.
	CreatedAt time.Time `json:"created_at,omitzero"`

	// UpdatedAt is the server-side timestamp of the last modification.
	UpdatedAt time.Time `json:"updated_at,omitzero"`

	// CreatedBy is the admin username that created the quote, when the
	// server reports it.
	CreatedBy string `json:"created_by,omitempty"`
}

// NewQuote builds a validated quote draft from raw input. Text and author are
// whitespace-trimmed and must be non-empty; tags are normalised via
// [NormalizeTags]. The returned quote has no ID and no timestamps — those are
// assigned by the server on create.
func NewQuote(text, author string, tags []string) (Quote, error) {
	text = strings.TrimSpace(text)
	author = strings.TrimSpace(author)

	if text == "" {
		return Quote{}, ErrEmptyQuoteText
	}
	if author == "" {
		return Quote{}, ErrEmptyQuoteAuthor
	}

	return Quote{Text: text, Author: author, Tags: NormalizeTags(tags)}, nil
}

// NormalizeTags trims every tag and drops empty and duplicate entries,
// preserving first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}

// NormalizedKey returns the duplicate-clustering key of the quote:
// the lower-cased, whitespace-trimmed text and author joined by "|".
// Two quotes with equal keys are considered likely duplicates.
func (q Quote) NormalizedKey() string {
	return strings.ToLower(strings.TrimSpace(q.Text)) + "|" + strings.ToLower(strings.TrimSpace(q.Author))
}
