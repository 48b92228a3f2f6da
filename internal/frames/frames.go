// Package frames reads recorded interaction streams: one candidate list per
// pointer event, as emitted by the picking layer.
package frames

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/philipparndt/dimsnap/pkg/geometry"
	"github.com/philipparndt/dimsnap/pkg/snap"
	"gopkg.in/yaml.v3"
)

// Event is the kind of pointer interaction a frame records
type Event string

const (
	EventMove   Event = "move"
	EventClick  Event = "click"
	EventCancel Event = "cancel"
)

// Frame is one decoded interaction tick
type Frame struct {
	Event         Event
	RequestedKind snap.Kind
	Candidates    []snap.Candidate
}

// Recording is a decoded frame stream
type Recording struct {
	Name   string
	Frames []Frame
}

type recordingDoc struct {
	Name   string     `yaml:"name"`
	Frames []frameDoc `yaml:"frames"`
}

type frameDoc struct {
	Event         string         `yaml:"event"`
	RequestedKind string         `yaml:"requested_kind"`
	Candidates    []candidateDoc `yaml:"candidates"`
}

type candidateDoc struct {
	Kind       string     `yaml:"kind"`
	ElementID  string     `yaml:"element_id"`
	World      [3]float64 `yaml:"world"`
	Local      [3]float64 `yaml:"local"`
	DistancePx float64    `yaml:"distance_px"`
	Visible    *bool      `yaml:"visible"`
	Valid      *bool      `yaml:"valid"`
	Stable     bool       `yaml:"stable"`
}

// Load reads a recording from a YAML file
func Load(filename string) (*Recording, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}
	defer file.Close()

	rec, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return rec, nil
}

// Parse decodes a recording and validates every candidate.
// Visible and valid default to true when omitted; move is the default event.
func Parse(r io.Reader) (*Recording, error) {
	var doc recordingDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &Recording{}, nil
		}
		return nil, fmt.Errorf("failed to decode recording: %w", err)
	}

	rec := &Recording{Name: doc.Name, Frames: make([]Frame, 0, len(doc.Frames))}
	for i, fd := range doc.Frames {
		frame, err := fd.toFrame()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		rec.Frames = append(rec.Frames, frame)
	}
	return rec, nil
}

func (fd frameDoc) toFrame() (Frame, error) {
	event := Event(strings.ToLower(strings.TrimSpace(fd.Event)))
	switch event {
	case "":
		event = EventMove
	case EventMove, EventClick, EventCancel:
	default:
		return Frame{}, fmt.Errorf("unknown event %q", fd.Event)
	}

	requested, err := snap.ParseKind(fd.RequestedKind)
	if err != nil {
		return Frame{}, err
	}

	candidates := make([]snap.Candidate, 0, len(fd.Candidates))
	for j, cd := range fd.Candidates {
		c, err := cd.toCandidate()
		if err != nil {
			return Frame{}, fmt.Errorf("candidate %d: %w", j, err)
		}
		candidates = append(candidates, c)
	}

	return Frame{Event: event, RequestedKind: requested, Candidates: candidates}, nil
}

func (cd candidateDoc) toCandidate() (snap.Candidate, error) {
	kind, err := snap.ParseKind(cd.Kind)
	if err != nil {
		return snap.Candidate{}, err
	}

	c := snap.Candidate{
		Kind:                kind,
		ElementID:           cd.ElementID,
		WorldPoint:          geometry.NewVector3(cd.World[0], cd.World[1], cd.World[2]),
		LocalPoint:          geometry.NewVector3(cd.Local[0], cd.Local[1], cd.Local[2]),
		ScreenDistancePx:    cd.DistancePx,
		IsVisibleInView:     cd.Visible == nil || *cd.Visible,
		IsValidForDimension: cd.Valid == nil || *cd.Valid,
		HasStableReference:  cd.Stable,
	}
	if err := c.Validate(); err != nil {
		return snap.Candidate{}, err
	}
	if !c.WorldPoint.IsFinite() || !c.LocalPoint.IsFinite() {
		return snap.Candidate{}, fmt.Errorf("non-finite point (world %v, local %v)", cd.World, cd.Local)
	}
	return c, nil
}
