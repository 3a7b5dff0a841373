// Command simple runs a demo GraphQL server over an in-memory dataset of
// users and posts. The type graph is cyclic (User.posts -> Post.author ->
// User) to show lazy type references, and the post list resolver returns a
// deferred value.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	executor "github.com/verdantgql/verdant/executor"
	eventbus "github.com/verdantgql/verdant/internal/eventbus"
	otel "github.com/verdantgql/verdant/otel"
	schema "github.com/verdantgql/verdant/schema"
	server "github.com/verdantgql/verdant/server"
)

type user struct {
	ID    string
	Name  string
	Email string
	Role  int
}

type post struct {
	ID       string
	Title    string
	Body     string
	AuthorID string
}

type store struct {
	mu     sync.RWMutex
	users  map[string]*user
	posts  map[string]*post
	nextID int
}

func newStore() *store {
	s := &store{
		users:  make(map[string]*user),
		posts:  make(map[string]*post),
		nextID: 3,
	}
	alice := &user{ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: roleAdmin}
	bob := &user{ID: "user-2", Name: "Bob", Email: "bob@example.com", Role: roleMember}
	s.users[alice.ID] = alice
	s.users[bob.ID] = bob
	s.posts["post-1"] = &post{ID: "post-1", Title: "Hello", Body: "First post", AuthorID: alice.ID}
	s.posts["post-2"] = &post{ID: "post-2", Title: "Lazy types", Body: "Cycles are fine", AuthorID: alice.ID}
	s.posts["post-3"] = &post{ID: "post-3", Title: "Ordering", Body: "Fields keep their order", AuthorID: bob.ID}
	return s
}

func (s *store) user(id string) *user {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id]
}

func (s *store) postsByAuthor(authorID string) []*post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) createPost(authorID, title, body string) (*post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[authorID]; !ok {
		return nil, fmt.Errorf("author %q not found", authorID)
	}
	s.nextID++
	p := &post{
		ID:       fmt.Sprintf("post-%d", s.nextID),
		Title:    title,
		Body:     body,
		AuthorID: authorID,
	}
	s.posts[p.ID] = p
	return p, nil
}

const (
	roleAdmin = iota
	roleMember
)

func buildSchema(db *store) *schema.Schema {
	roleEnum := schema.NewEnum(schema.EnumConfig{
		Name: "Role",
		Values: []schema.EnumValueConfig{
			{Name: "ADMIN", Value: roleAdmin},
			{Name: "MEMBER", Value: roleMember},
		},
	})

	var userType, postType *schema.Object

	userType = schema.NewObject(schema.ObjectConfig{
		Name: "User",
		FieldsFn: func() schema.Fields {
			return schema.Fields{
				{Name: "id", Type: schema.NonNullOf(schema.ID)},
				{Name: "name", Type: schema.NonNullOf(schema.String)},
				{Name: "email", Type: schema.String},
				{Name: "role", Type: roleEnum},
				{
					Name: "posts",
					Type: schema.ListOf(schema.NonNullOf(schema.Lazy(func() schema.Type { return postType }))),
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						u := source.(*user)
						return executor.Defer(func() (any, error) {
							return db.postsByAuthor(u.ID), nil
						}), nil
					},
				},
			}
		},
	})

	postType = schema.NewObject(schema.ObjectConfig{
		Name: "Post",
		FieldsFn: func() schema.Fields {
			return schema.Fields{
				{Name: "id", Type: schema.NonNullOf(schema.ID)},
				{Name: "title", Type: schema.NonNullOf(schema.String)},
				{Name: "body", Type: schema.String},
				{
					Name: "author",
					Type: schema.NonNullOf(schema.Lazy(func() schema.Type { return userType })),
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						return db.user(source.(*post).AuthorID), nil
					},
				},
			}
		},
	})

	query := schema.NewObject(schema.ObjectConfig{
		Name: "Query",
		Fields: schema.Fields{
			{
				Name: "user",
				Type: userType,
				Args: []*schema.Argument{{Name: "id", Type: schema.NonNullOf(schema.ID)}},
				Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
					u := db.user(args["id"].(string))
					if u == nil {
						return nil, nil
					}
					return u, nil
				},
			},
			{
				Name: "users",
				Type: schema.ListOf(schema.NonNullOf(userType)),
				Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
					db.mu.RLock()
					defer db.mu.RUnlock()
					ids := make([]string, 0, len(db.users))
					for id := range db.users {
						ids = append(ids, id)
					}
					sort.Strings(ids)
					out := make([]any, len(ids))
					for i, id := range ids {
						out[i] = db.users[id]
					}
					return out, nil
				},
			},
		},
	})

	postInput := schema.NewInputObject(schema.InputObjectConfig{
		Name: "NewPost",
		Fields: []*schema.InputField{
			{Name: "authorId", Type: schema.NonNullOf(schema.ID)},
			{Name: "title", Type: schema.NonNullOf(schema.String)},
			{Name: "body", Type: schema.String, DefaultValue: ""},
		},
	})

	mutation := schema.NewObject(schema.ObjectConfig{
		Name: "Mutation",
		Fields: schema.Fields{
			{
				Name: "createPost",
				Type: schema.NonNullOf(postType),
				Args: []*schema.Argument{{Name: "input", Type: schema.NonNullOf(postInput)}},
				Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
					in := args["input"].(map[string]any)
					body, _ := in["body"].(string)
					return db.createPost(in["authorId"].(string), in["title"].(string), body)
				},
			},
		},
	})

	return schema.MustNew(schema.Config{Query: query, Mutation: mutation})
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	pretty := flag.Bool("pretty", false, "pretty-print JSON responses")
	otelEndpoint := flag.String("otel.endpoint", "", "OTLP collector endpoint")
	flag.Parse()

	eventbus.Use(eventbus.New())
	shutdown, err := otel.Setup(*otelEndpoint, "verdant-simple")
	if err != nil {
		log.Fatalf("otel setup: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	db := newStore()
	exec := executor.New(buildSchema(db),
		executor.WithMaxDepth(12),
		executor.WithMaxConcurrency(256),
	)

	opts := []server.Option{server.WithGraphiQL(true)}
	if *pretty {
		opts = append(opts, server.WithPretty())
	}
	handler := server.New(exec, opts...)

	log.Printf("GraphQL server listening on %s", *addr)
	if err := http.ListenAndServe(*addr, handler); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
