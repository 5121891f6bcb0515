package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contentkit/searchfilter-go/searchfilter"
	"github.com/contentkit/searchfilter-go/testutil/fixtures"
)

//go:embed schema.sql
var schemaDDL string

// Seed creates the demo schema and loads the fixture posts, terms and
// post/term assignments. It is idempotent: existing rows are left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating demo schema failed: %w", err)
	}

	posts := demoPosts()
	if err := insertPosts(ctx, pool, posts); err != nil {
		return err
	}

	terms := append(fixtures.CategoryTerms(), fixtures.TagTerms()...)
	if err := insertTerms(ctx, pool, terms); err != nil {
		return err
	}

	return insertAssignments(ctx, pool, demoAssignments(posts, terms))
}

func demoPosts() searchfilter.Posts {
	posts := fixtures.SamplePosts()
	posts = append(posts,
		fixtures.NewPublishedPostWithMeta("post", "Querying Postgres From Go", map[string]any{
			"price": 9.99,
		}),
		fixtures.NewPublishedPost("post", "Table Driven Tests"),
		fixtures.NewPublishedPost("page", "Contact"),
	)

	return posts
}

// demoAssignments spreads the terms over the posts round-robin so every
// taxonomy filter matches at least one post.
func demoAssignments(posts searchfilter.Posts, terms searchfilter.Terms) map[searchfilter.PostIDInt64][]searchfilter.TermIDInt64 {
	assignments := make(map[searchfilter.PostIDInt64][]searchfilter.TermIDInt64, len(posts))

	for i, post := range posts {
		term := terms[i%len(terms)]
		assignments[post.ID] = append(assignments[post.ID], term.ID)
	}

	return assignments
}

func insertPosts(ctx context.Context, pool *pgxpool.Pool, posts searchfilter.Posts) error {
	const insertPost = `INSERT INTO posts
		(id, post_type, status, title, permalink, excerpt, content, published_at, meta)
		VALUES ($1, $2, 'published', $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	for _, post := range posts {
		content := "Body of " + post.Title

		_, err := pool.Exec(ctx, insertPost,
			post.ID, post.PostType, post.Title, post.Permalink,
			post.Excerpt, content, post.PublishedAt, post.MetaJSON)
		if err != nil {
			return fmt.Errorf("inserting demo post %d failed: %w", post.ID, err)
		}
	}

	return nil
}

func insertTerms(ctx context.Context, pool *pgxpool.Pool, terms searchfilter.Terms) error {
	const insertTerm = `INSERT INTO terms (id, taxonomy, slug, name, count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	for _, term := range terms {
		_, err := pool.Exec(ctx, insertTerm,
			term.ID, term.Taxonomy, term.Slug, term.Name, term.Count)
		if err != nil {
			return fmt.Errorf("inserting demo term %d failed: %w", term.ID, err)
		}
	}

	return nil
}

func insertAssignments(
	ctx context.Context,
	pool *pgxpool.Pool,
	assignments map[searchfilter.PostIDInt64][]searchfilter.TermIDInt64,
) error {

	const insertAssignment = `INSERT INTO post_terms (post_id, term_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	for postID, termIDs := range assignments {
		for _, termID := range termIDs {
			if _, err := pool.Exec(ctx, insertAssignment, postID, termID); err != nil {
				return fmt.Errorf("assigning term %d to post %d failed: %w", termID, postID, err)
			}
		}
	}

	return nil
}
