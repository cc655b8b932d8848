package article

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---\n"

var eventTimePattern = regexp.MustCompile(`^\d+e\d+$`)

// splitFrontmatter separates the leading YAML block from the body.
// Articles without a front-matter block are valid; all metadata then
// takes its defaults. bodyOffset is the byte offset of the body within
// the original source, for error spans.
func splitFrontmatter(source string) (meta string, body string, bodyOffset int) {
	if !strings.HasPrefix(source, frontmatterDelimiter) {
		return "", source, 0
	}
	rest := source[len(frontmatterDelimiter):]
	end := strings.Index(rest, frontmatterDelimiter)
	if end == -1 {
		return "", source, 0
	}
	meta = rest[:end]
	bodyOffset = len(frontmatterDelimiter) + end + len(frontmatterDelimiter)
	return meta, source[bodyOffset:], bodyOffset
}

// ParseMetadata decodes and validates a front-matter block. Schema
// violations surface as a ParseError anchored at the start of the
// source.
func ParseMetadata(source string) (Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal([]byte(source), &meta); err != nil {
		return Metadata{}, &ParseError{Span: Span{Offset: 0, Length: 1}, Message: fmt.Sprintf("invalid front-matter YAML: %v", err)}
	}
	if err := meta.Validate(); err != nil {
		return Metadata{}, &ParseError{Span: Span{Offset: 0, Length: 1}, Message: fmt.Sprintf("invalid front-matter: %v", err)}
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if meta.Pins == nil {
		meta.Pins = []MapPin{}
	}
	if meta.Events == nil {
		meta.Events = []Event{}
	}
	return meta, nil
}

func (m Metadata) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Tags, validation.Each(validation.Required)),
		validation.Field(&m.Infobox),
		validation.Field(&m.Pins),
		validation.Field(&m.Events),
	)
}

func (p MapPin) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Map, validation.Required),
		validation.Field(&p.Type, validation.Required, validation.In(anySlice(PinTypes)...)),
		validation.Field(&p.Coords, validation.Required, validation.Length(2, 2)),
	)
}

func (e Event) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Label, validation.Required),
		validation.Field(&e.Time, validation.Required,
			validation.Match(eventTimePattern).Error("must be of the form '<era>e<year>'")),
	)
}

func (b Infobox) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Items),
	)
}

func (i InfoboxItem) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Kind, validation.Required,
			validation.In(InfoboxHeading, InfoboxFact, InfoboxList, InfoboxImage)),
	)
	if err != nil {
		return err
	}
	switch i.Kind {
	case InfoboxHeading:
		return validation.ValidateStruct(&i,
			validation.Field(&i.Text, validation.Required))
	case InfoboxFact:
		return validation.ValidateStruct(&i,
			validation.Field(&i.Label, validation.Required),
			validation.Field(&i.Content, validation.Required))
	case InfoboxList:
		return validation.ValidateStruct(&i,
			validation.Field(&i.Label, validation.Required),
			validation.Field(&i.Items, validation.Required))
	case InfoboxImage:
		return validation.ValidateStruct(&i,
			validation.Field(&i.Src, validation.Required),
			validation.Field(&i.Alt, validation.Required))
	}
	return nil
}

func anySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
