// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides a fake GitHub GraphQL endpoint that serves a
// single discussion, for tests that exercise the real HTTP client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// DiscussionServer is an httptest server answering the three GraphQL
// operations a survey store issues against one discussion.
type DiscussionServer struct {
	*httptest.Server

	mu sync.Mutex

	// Identity of the served discussion
	Owner        string
	Repo         string
	Number       int
	DiscussionID string

	// Token expected in the Authorization header. Empty accepts any token.
	Token string

	// Bodies of the discussion's comments, oldest first
	Bodies []string

	// FailRequest makes the Nth request (1-based) answer with FailStatus.
	FailRequest int
	FailStatus  int

	// Requests records every decoded request in arrival order
	Requests []GraphQLRequest
}

// GraphQLRequest is the JSON body shurcooL/graphql posts.
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// NewDiscussionServer starts a server for octocat/surveys discussion 7 with
// the given comment bodies. The server is closed when the test ends.
func NewDiscussionServer(t testing.TB, bodies ...string) *DiscussionServer {
	t.Helper()

	s := &DiscussionServer{
		Owner:        "octocat",
		Repo:         "surveys",
		Number:       7,
		DiscussionID: "D_kwDOTest0007",
		Token:        "test-token",
		Bodies:       append([]string(nil), bodies...),
		FailStatus:   http.StatusBadGateway,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

// Endpoint returns the GraphQL endpoint URL.
func (s *DiscussionServer) Endpoint() string {
	return s.URL + "/graphql"
}

// RequestCount returns the number of requests received so far.
func (s *DiscussionServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// CountRequests returns how many recorded requests contain fragment in their query.
func (s *DiscussionServer) CountRequests(fragment string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.Requests {
		if strings.Contains(r.Query, fragment) {
			n++
		}
	}
	return n
}

// CommentBodies returns a copy of the discussion's comment bodies.
func (s *DiscussionServer) CommentBodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Bodies...)
}

func (s *DiscussionServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Path != "/graphql" || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "Problems parsing JSON"})
		return
	}
	s.Requests = append(s.Requests, req)

	if s.FailRequest > 0 && len(s.Requests) == s.FailRequest {
		w.WriteHeader(s.FailStatus)
		_, _ = w.Write([]byte(http.StatusText(s.FailStatus)))
		return
	}

	if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"message":           "Bad credentials",
			"documentation_url": "https://docs.github.com/graphql",
		})
		return
	}

	switch {
	case strings.HasPrefix(req.Query, "mutation"):
		s.addComment(w, req.Variables)
	case strings.Contains(req.Query, "comments("):
		s.listComments(w, req.Variables)
	default:
		s.resolveDiscussion(w, req.Variables)
	}
}

func (s *DiscussionServer) resolveDiscussion(w http.ResponseWriter, vars map[string]interface{}) {
	if resp, ok := s.lookupFailure(vars); !ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"discussion": map[string]interface{}{
					"id": s.DiscussionID,
				},
			},
		},
	})
}

func (s *DiscussionServer) listComments(w http.ResponseWriter, vars map[string]interface{}) {
	if resp, ok := s.lookupFailure(vars); !ok {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	first := 100
	if f, ok := vars["first"].(float64); ok {
		first = int(f)
	}

	offset := 0
	if after, ok := vars["after"].(string); ok && after != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(after, "cursor:"))
		if err != nil || n > len(s.Bodies) {
			writeJSON(w, http.StatusOK, graphQLError(fmt.Sprintf("`%s` does not appear to be a valid cursor.", after)))
			return
		}
		offset = n
	}

	end := offset + first
	if end > len(s.Bodies) {
		end = len(s.Bodies)
	}

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	nodes := make([]map[string]interface{}, 0, end-offset)
	for i := offset; i < end; i++ {
		nodes = append(nodes, map[string]interface{}{
			"id":        fmt.Sprintf("DC_kwDOTest%04d", i+1),
			"body":      s.Bodies[i],
			"url":       s.commentURL(i + 1),
			"createdAt": created.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		})
	}

	var endCursor interface{}
	if end > offset {
		endCursor = fmt.Sprintf("cursor:%d", end)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"discussion": map[string]interface{}{
					"comments": map[string]interface{}{
						"nodes": nodes,
						"pageInfo": map[string]interface{}{
							"hasNextPage": end < len(s.Bodies),
							"endCursor":   endCursor,
						},
					},
				},
			},
		},
	})
}

func (s *DiscussionServer) addComment(w http.ResponseWriter, vars map[string]interface{}) {
	input, _ := vars["input"].(map[string]interface{})
	id, _ := input["discussionId"].(string)
	body, _ := input["body"].(string)

	if id != s.DiscussionID {
		writeJSON(w, http.StatusOK, graphQLError(fmt.Sprintf("Could not resolve to a node with the global id of '%s'", id)))
		return
	}

	s.Bodies = append(s.Bodies, body)
	n := len(s.Bodies)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"addDiscussionComment": map[string]interface{}{
				"comment": map[string]interface{}{
					"id":  fmt.Sprintf("DC_kwDOTest%04d", n),
					"url": s.commentURL(n),
				},
			},
		},
	})
}

// lookupFailure checks the owner, repo and number variables. It returns
// false together with the response to send when they do not match.
func (s *DiscussionServer) lookupFailure(vars map[string]interface{}) (map[string]interface{}, bool) {
	owner, _ := vars["owner"].(string)
	repo, _ := vars["repo"].(string)
	number, _ := vars["number"].(float64)

	if owner != s.Owner || repo != s.Repo {
		resp := graphQLError(fmt.Sprintf("Could not resolve to a Repository with the name '%s/%s'.", owner, repo))
		resp["data"] = map[string]interface{}{"repository": nil}
		return resp, false
	}
	if int(number) != s.Number {
		resp := graphQLError(fmt.Sprintf("Could not resolve to a Discussion with the number of %d.", int(number)))
		resp["data"] = map[string]interface{}{
			"repository": map[string]interface{}{"discussion": nil},
		}
		return resp, false
	}
	return nil, true
}

func (s *DiscussionServer) commentURL(n int) string {
	return fmt.Sprintf("https://github.com/%s/%s/discussions/%d#discussioncomment-%d", s.Owner, s.Repo, s.Number, n)
}

func graphQLError(message string) map[string]interface{} {
	return map[string]interface{}{
		"errors": []interface{}{
			map[string]interface{}{
				"type":    "NOT_FOUND",
				"message": message,
			},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
