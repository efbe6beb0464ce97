// Package routing maps a (stage, field) pair to the chat and forum topic documents are delivered to.
//
// The table is loaded once at start-up and never modified afterwards, so it is safe for concurrent use.
package routing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/akademflow/backend/core"
)

// ErrRouteNotFound is matched (errors.Is) by every *NotFoundError.
var ErrRouteNotFound = errors.New("route not found")

// ID is a chat or topic identifier. Routing files may spell it as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "id must be a number or a string")
	}
	*id = ID(strings.TrimSpace(s))
	return nil
}

func (id *ID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: id must be a number or a string", value.Line)
	}
	*id = ID(strings.TrimSpace(value.Value))
	return nil
}

// Route is the delivery configuration of one stage.
type Route struct {
	ChatID ID            `json:"chat_id" yaml:"chat_id"`
	Topics map[string]ID `json:"topics" yaml:"topics"`
}

// Target is a resolved delivery destination.
type Target struct {
	ChatID  string `json:"chatId"`
	TopicID string `json:"topicId"`
}

// NotFoundError is returned when a stage or a stage's field has no route.
// ChatID is set (for diagnostics only) when the stage itself is routed.
type NotFoundError struct {
	Stage  core.StageID
	Field  string
	ChatID string
}

func (err *NotFoundError) Error() string {
	return fmt.Sprintf("no route for stage %q and field %q", err.Stage, err.Field)
}

func (err *NotFoundError) Is(target error) bool {
	return target == ErrRouteNotFound
}

type Table struct {
	routes map[core.StageID]Route
}

// New builds a Table from `routes`. Stage keys are normalized with core.NormalizeStage; when two keys
// normalize to the same stage, the last one in sorted key order wins.
func New(routes map[string]Route) *Table {
	t := &Table{routes: make(map[core.StageID]Route, len(routes))}
	for _, stage := range sortedKeys(routes) {
		r := routes[stage]
		topics := make(map[string]ID, len(r.Topics))
		for field, topic := range r.Topics {
			topics[core.CleanString(field)] = topic
		}
		t.routes[core.NormalizeStage(stage)] = Route{ChatID: r.ChatID, Topics: topics}
	}
	return t
}

// Load reads the routing file at `path` (YAML for .yaml/.yml, JSON otherwise).
// A missing file yields an empty Table: every resolution then fails with ErrRouteNotFound.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil), nil
		}
		return nil, errors.Wrapf(err, "reading routing file %s", path)
	}

	routes := make(map[string]Route)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &routes)
	default:
		err = json.Unmarshal(data, &routes)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing routing file %s", path)
	}

	seen := make(map[core.StageID]string, len(routes))
	for _, key := range sortedKeys(routes) {
		stage := core.NormalizeStage(key)
		if prev, ok := seen[stage]; ok {
			return nil, errors.Errorf("routing file %s: %q and %q are both stage %s", path, prev, key, stage)
		}
		seen[stage] = key
	}
	return New(routes), nil
}

func sortedKeys(routes map[string]Route) []string {
	keys := make([]string, 0, len(routes))
	for k := range routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the chat and topic documents of `stage` and `field` are delivered to.
// A known stage with an unknown field is still not found.
func (t *Table) Resolve(stage core.StageID, field string) (Target, error) {
	r, ok := t.routes[stage]
	if !ok || r.ChatID == "" {
		return Target{}, &NotFoundError{Stage: stage, Field: field}
	}
	topic := r.Topics[core.CleanString(field)]
	if topic == "" {
		return Target{}, &NotFoundError{Stage: stage, Field: field, ChatID: string(r.ChatID)}
	}
	return Target{ChatID: string(r.ChatID), TopicID: string(topic)}, nil
}

// Stages lists the routed stages, sorted.
func (t *Table) Stages() []core.StageID {
	stages := make([]core.StageID, 0, len(t.routes))
	for s := range t.routes {
		stages = append(stages, s)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })
	return stages
}

// Route returns the route of `stage`.
func (t *Table) Route(stage core.StageID) (Route, bool) {
	r, ok := t.routes[stage]
	return r, ok
}
