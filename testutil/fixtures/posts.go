package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/contentkit/searchfilter-go/searchfilter"
)

var jsonAPI = jsoniter.ConfigFastest

var nextPostID int64

// NewPublishedPost creates a post fixture of the given type with a unique
// permalink and empty meta.
func NewPublishedPost(postType searchfilter.PostTypeString, title string) searchfilter.Post {
	nextPostID++

	post, err := searchfilter.BuildPostWithEmptyMeta(
		nextPostID,
		postType,
		title,
		permalinkFor(title),
		"Excerpt for "+title,
		time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(fmt.Sprintf("building post fixture failed: %v", err))
	}

	return post
}

// NewPublishedPostWithMeta creates a post fixture carrying the given meta fields.
func NewPublishedPostWithMeta(
	postType searchfilter.PostTypeString,
	title string,
	meta map[string]any,
) searchfilter.Post {

	nextPostID++

	metaJSON, marshalErr := jsonAPI.Marshal(meta)
	if marshalErr != nil {
		panic(fmt.Sprintf("marshaling post fixture meta failed: %v", marshalErr))
	}

	post, err := searchfilter.BuildPost(
		nextPostID,
		postType,
		title,
		permalinkFor(title),
		"Excerpt for "+title,
		time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
		metaJSON,
	)
	if err != nil {
		panic(fmt.Sprintf("building post fixture failed: %v", err))
	}

	return post
}

// SamplePosts returns a small mixed-type result set.
func SamplePosts() searchfilter.Posts {
	return searchfilter.Posts{
		NewPublishedPost("post", "A First Post"),
		NewPublishedPost("post", "A Second Post"),
		NewPublishedPost("page", "About Us"),
	}
}

func permalinkFor(title string) string {
	slug := strings.ToLower(strings.ReplaceAll(title, " ", "-"))

	return fmt.Sprintf("/%s-%s", slug, uuid.New().String())
}
