// Package catalog exposes the static set of pre-hosted demo videos that
// uploads pick from, along with the allowed categories.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed demo_videos.yaml
var demoYAML []byte

// DemoVideo is one pre-hosted media file an upload can reference.
type DemoVideo struct {
	Index        int    `yaml:"-" json:"index"`
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
	MediaURL     string `yaml:"media_url" json:"media_url"`
	ThumbnailURL string `yaml:"thumbnail_url" json:"thumbnail_url"`
	Duration     int    `yaml:"duration" json:"duration"`
	Category     string `yaml:"category" json:"category"`
}

type document struct {
	Categories []string    `yaml:"categories"`
	Videos     []DemoVideo `yaml:"videos"`
}

var (
	loadOnce sync.Once
	loaded   document
	loadErr  error
)

func load() (document, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parse(demoYAML)
	})
	return loaded, loadErr
}

func parse(raw []byte) (document, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return document{}, fmt.Errorf("parse demo catalog: %w", err)
	}
	if len(doc.Videos) == 0 {
		return document{}, fmt.Errorf("demo catalog has no videos")
	}
	for i := range doc.Videos {
		doc.Videos[i].Index = i
		if !slices.Contains(doc.Categories, doc.Videos[i].Category) {
			return document{}, fmt.Errorf("demo video %d has unknown category %q", i, doc.Videos[i].Category)
		}
	}
	return doc, nil
}

// DemoVideos returns a copy of the demo catalog in display order.
func DemoVideos() []DemoVideo {
	doc, err := load()
	if err != nil {
		panic(err)
	}
	return slices.Clone(doc.Videos)
}

// Demo returns the demo entry at index.
func Demo(index int) (DemoVideo, bool) {
	videos := DemoVideos()
	if index < 0 || index >= len(videos) {
		return DemoVideo{}, false
	}
	return videos[index], true
}

// Categories returns the allowed upload categories.
func Categories() []string {
	doc, err := load()
	if err != nil {
		panic(err)
	}
	return slices.Clone(doc.Categories)
}

// IsCategory reports whether name is an allowed category.
func IsCategory(name string) bool {
	return slices.Contains(Categories(), name)
}
