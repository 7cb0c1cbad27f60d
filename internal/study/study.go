// Package study serves the read-only study topics.
package study

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrTopicNotFound = errors.New("topic not found")

//go:embed data/study.yaml
var defaultDocument []byte

type Section struct {
	Heading string `yaml:"heading" json:"heading" validate:"required"`
	Body    string `yaml:"body" json:"body" validate:"required"`
}

type Topic struct {
	ID          string    `yaml:"id" json:"id" validate:"required"`
	Title       string    `yaml:"title" json:"title" validate:"required"`
	Description string    `yaml:"description" json:"description"`
	Difficulty  string    `yaml:"difficulty" json:"difficulty" validate:"required,oneof=Beginner Intermediate Advanced"`
	Subtopics   []string  `yaml:"subtopics" json:"subtopics"`
	Sections    []Section `yaml:"sections" json:"sections,omitempty" validate:"dive"`
}

// Summary drops the section bodies for listings.
func (t Topic) Summary() Topic {
	out := t
	out.Subtopics = slices.Clone(t.Subtopics)
	out.Sections = nil
	return out
}

type Library struct {
	topics []Topic
}

type document struct {
	Topics []Topic `yaml:"topics" validate:"required,min=1,dive"`
}

var validate = validator.New()

func Default() (*Library, error) {
	return Parse(defaultDocument)
}

func Parse(data []byte) (*Library, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse study topics")
	}
	if err := validate.Struct(doc); err != nil {
		return nil, errors.Wrap(err, "validate study topics")
	}

	seen := make(map[string]bool, len(doc.Topics))
	for _, topic := range doc.Topics {
		if seen[topic.ID] {
			return nil, fmt.Errorf("duplicate topic id %q", topic.ID)
		}
		seen[topic.ID] = true
	}
	return &Library{topics: doc.Topics}, nil
}

// List returns topic summaries in authored order.
func (l *Library) List() []Topic {
	out := make([]Topic, len(l.topics))
	for idx, topic := range l.topics {
		out[idx] = topic.Summary()
	}
	return out
}

func (l *Library) Get(id string) (Topic, error) {
	for _, topic := range l.topics {
		if topic.ID == id {
			out := topic
			out.Subtopics = slices.Clone(topic.Subtopics)
			out.Sections = slices.Clone(topic.Sections)
			return out, nil
		}
	}
	return Topic{}, errors.Wrap(ErrTopicNotFound, id)
}
