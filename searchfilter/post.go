package searchfilter

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrInvalidMetaJSON = errors.New("meta json is not valid")

// Posts is an alias type for a slice of Post.
type Posts = []Post

// PostIDInt64 is an alias type for the host platform's numeric post IDs.
type PostIDInt64 = int64

// Post is a DTO (data transfer object) used by the query engine to return result
// entries and by the renderers to emit the result list.
//
// It is built on scalars to be completely agnostic of how the host platform models
// its content internally.
//
// While its properties are exported, it should only be constructed with the
// supplied factory methods:
//   - BuildPost
//   - BuildPostWithEmptyMeta
type Post struct {
	ID          PostIDInt64
	PostType    PostTypeString
	Title       string
	Permalink   string
	Excerpt     string
	PublishedAt time.Time
	MetaJSON    []byte
}

// BuildPost is a factory method for Post.
//
// It populates the Post with the given scalar input.
// Returns an error if metaJSON is not valid JSON.
func BuildPost(
	id int64,
	postType PostTypeString,
	title string,
	permalink string,
	excerpt string,
	publishedAt time.Time,
	metaJSON []byte,
) (Post, error) {

	if !jsoniter.ConfigFastest.Valid(metaJSON) {
		return Post{}, ErrInvalidMetaJSON
	}

	return Post{
		ID:          id,
		PostType:    postType,
		Title:       title,
		Permalink:   permalink,
		Excerpt:     excerpt,
		PublishedAt: publishedAt,
		MetaJSON:    metaJSON,
	}, nil
}

// BuildPostWithEmptyMeta is a factory method for Post.
//
// It populates the Post with the given scalar input and creates valid empty JSON for MetaJSON.
func BuildPostWithEmptyMeta(
	id int64,
	postType PostTypeString,
	title string,
	permalink string,
	excerpt string,
	publishedAt time.Time,
) (Post, error) {

	return BuildPost(id, postType, title, permalink, excerpt, publishedAt, []byte("{}"))
}

// Meta decodes the MetaJSON of the Post into a flat map of custom-field values.
func (p Post) Meta() (map[string]any, error) {
	meta := make(map[string]any)

	if err := jsoniter.ConfigFastest.Unmarshal(p.MetaJSON, &meta); err != nil {
		return nil, errors.Join(ErrInvalidMetaJSON, err)
	}

	return meta, nil
}
