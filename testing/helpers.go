// Package testing provides fixtures for testing dryer decorators.
package testing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/zoobzio/dryer"
)

// Association is a named related record.
type Association struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Record carries one attribute of every formatted kind.
type Record struct {
	Date1        time.Time    `json:"date1"`
	Date2        *time.Time   `json:"date2"`
	Time1        time.Time    `json:"time1"`
	Time2        time.Time    `json:"time2"`
	Datetime1    time.Time    `json:"datetime1"`
	Datetime2    time.Time    `json:"datetime2"`
	Number1      float64      `json:"number1"`
	Number2      any          `json:"number2"`
	Association1 *Association `json:"association1"`
	Association2 *Association `json:"association2"`
	File         dryer.Attachment
}

// SampleRecord returns a Record with fixed values on 2023-11-01.
func SampleRecord() *Record {
	date2 := time.Date(2023, 11, 2, 0, 0, 0, 0, time.UTC)
	return &Record{
		Date1:        time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		Date2:        &date2,
		Time1:        time.Date(2023, 11, 1, 11, 30, 0, 0, time.UTC),
		Time2:        time.Date(2023, 11, 1, 12, 59, 0, 0, time.UTC),
		Datetime1:    time.Date(2023, 11, 1, 13, 49, 0, 0, time.UTC),
		Datetime2:    time.Date(2023, 11, 1, 15, 23, 0, 0, time.UTC),
		Number1:      5.321,
		Number2:      77.888888,
		Association1: &Association{ID: 1, Name: "John Smith"},
		Association2: &Association{ID: 2, Name: "Joe Bloggs"},
	}
}

// Attachment is an in-memory dryer.Attachment.
type Attachment struct {
	File        string
	ID          string
	Image       bool
	Variants    map[string]bool
	SignedIDErr error

	processed atomic.Int32
}

// NewAttachment returns an attached image with a "thumb" variant.
func NewAttachment(filename string) *Attachment {
	return &Attachment{
		File:     filename,
		ID:       "signed-" + filename,
		Image:    true,
		Variants: map[string]bool{"thumb": true},
	}
}

// Attached reports whether a file is set.
func (a *Attachment) Attached() bool { return a != nil && a.File != "" }

// Filename returns the file name.
func (a *Attachment) Filename() string { return a.File }

// SignedID returns ID, or SignedIDErr when set.
func (a *Attachment) SignedID() (string, error) {
	if a.SignedIDErr != nil {
		return "", a.SignedIDErr
	}
	return a.ID, nil
}

// Variant returns a VariantTarget for a known variant.
func (a *Attachment) Variant(name string) (any, error) {
	if !a.Variants[name] {
		return nil, fmt.Errorf("unknown variant %q", name)
	}
	return VariantTarget{Name: name, Filename: a.File}, nil
}

// Representable reports whether the attachment is an image.
func (a *Attachment) Representable() bool { return a.Image }

// Representation returns a representation that counts processing.
func (a *Attachment) Representation(params map[string]any) (dryer.Representation, error) {
	return &Representation{attachment: a, params: params}, nil
}

// Processed returns how many representations were processed.
func (a *Attachment) Processed() int { return int(a.processed.Load()) }

// VariantTarget is the URL target of a named variant.
type VariantTarget struct {
	Name     string
	Filename string
}

// RepresentationTarget is the URL target of a processed representation.
type RepresentationTarget struct {
	Params   map[string]any
	Filename string
}

// Representation is the representation returned by Attachment.
type Representation struct {
	attachment *Attachment
	params     map[string]any
}

// Processed records the call and returns a RepresentationTarget.
func (r *Representation) Processed(_ context.Context) (any, error) {
	r.attachment.processed.Add(1)
	return RepresentationTarget{Params: r.params, Filename: r.attachment.File}, nil
}

// ErrURL is returned by URLGenerator when Fail is set.
var ErrURL = errors.New("url generation failed")

// URLGenerator builds predictable URLs for the targets in this package.
type URLGenerator struct {
	Fail bool
}

// URLFor returns /files/{name}, /variants/{variant}/{name} or
// /representations/{name}.
func (g URLGenerator) URLFor(_ context.Context, target any) (string, error) {
	if g.Fail {
		return "", ErrURL
	}
	switch t := target.(type) {
	case *Attachment:
		return "/files/" + t.File, nil
	case VariantTarget:
		return "/variants/" + t.Name + "/" + t.Filename, nil
	case RepresentationTarget:
		return "/representations/" + t.Filename, nil
	}
	return "", fmt.Errorf("unsupported target %T", target)
}
