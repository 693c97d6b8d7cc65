// Package metadata flattens the OOXML document property parts into
// local-name/text mappings.
package metadata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xtractor/xtractor/internal/archive"
)

// Fixed package parts holding document properties.
const (
	CorePart = "docProps/core.xml"
	AppPart  = "docProps/app.xml"
)

// Parts lists the property parts in the order they are reported.
var Parts = []string{CorePart, AppPart}

// MaxDepth bounds element nesting.
const MaxDepth = 256

var (
	// ErrPartMissing is returned when a property part is absent from the package.
	ErrPartMissing = errors.New("metadata part missing")
	// ErrTooDeep is returned when the document nests deeper than MaxDepth.
	ErrTooDeep = errors.New("xml nesting depth exceeded")
)

// ParseError reports a property part that is not well-formed XML.
type ParseError struct {
	Part string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("parse metadata: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Part, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type element struct {
	name     string
	text     strings.Builder
	hasChild bool
}

// Parse walks every element of the XML document in r and records the
// element's direct text (the character data before its first child) under
// its local name. Any non-empty text is kept verbatim, including the
// indentation between the children of a pretty-printed element. A later
// element with the same local name overwrites the earlier value.
func Parse(r io.Reader) (*Mapping, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = true

	// Elements are kept in start order so keys land in document order even
	// though an element's text is only complete at its first child or end tag.
	var (
		ordered []*element
		stack   []*element
		sawRoot bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= MaxDepth {
				return nil, &ParseError{Err: fmt.Errorf("%w: more than %d levels", ErrTooDeep, MaxDepth)}
			}
			if len(stack) > 0 {
				stack[len(stack)-1].hasChild = true
			}
			el := &element{name: t.Name.Local}
			ordered = append(ordered, el)
			stack = append(stack, el)
			sawRoot = true
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if !top.hasChild {
				top.text.Write(t)
			}
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if !sawRoot {
		return nil, &ParseError{Err: errors.New("no root element")}
	}

	m := NewMapping()
	for _, el := range ordered {
		if el.text.Len() == 0 {
			continue
		}
		m.Set(el.name, el.text.String())
	}
	return m, nil
}

// ReadPart opens the named part of the package and parses it.
func ReadPart(a *archive.Archive, part string) (*Mapping, error) {
	rc, err := a.Open(part)
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			return nil, fmt.Errorf("%s: %w", part, ErrPartMissing)
		}
		return nil, err
	}
	defer rc.Close() // nolint:errcheck // read-only entry stream

	m, err := Parse(rc)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Part = part
			return nil, pe
		}
		return nil, err
	}
	return m, nil
}
