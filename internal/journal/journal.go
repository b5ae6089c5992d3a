// Package journal records completed port runs in a small database under the
// repository's .git directory, so past runs can be listed and their result
// trees re-rendered later.
package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.etcd.io/bbolt"

	"graft.dev/graft/internal/engine"
)

// Buckets
var (
	// BucketRuns maps run id -> zstd-compressed JSON record
	BucketRuns = []byte("runs")
	// BucketByTime maps creation timestamp + id -> run id, so listing by
	// recency is a reverse cursor walk
	BucketByTime = []byte("by-time")
)

// Run statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record is one journaled port run
type Record struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"createdAt"`
	BaseRef     string       `json:"baseRef"`
	UpstreamRef string       `json:"upstreamRef"`
	TipRef      string       `json:"tipRef,omitempty"`
	Base        string       `json:"base"`
	Upstream    string       `json:"upstream"`
	Status      string       `json:"status"`
	Error       string       `json:"error,omitempty"`
	Chain       []string     `json:"chain,omitempty"`
	Stats       engine.Stats `json:"stats"`
	Root        *Tree        `json:"root,omitempty"`
	Flattened   *Tree        `json:"flattened,omitempty"`
}

// Tree is a flat encoding of a BranchNode tree. Nodes appear once each,
// parents are indices into Nodes, so structural sharing survives the round
// trip.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
	Top   int        `json:"top"`
}

// TreeNode is one encoded node
type TreeNode struct {
	Commit  string `json:"commit"`
	Parents []int  `json:"parents,omitempty"`
}

// EncodeTree flattens a BranchNode tree into its journal form. Returns nil
// for a nil root.
func EncodeTree(root *engine.BranchNode) *Tree {
	if root == nil {
		return nil
	}

	index := make(map[*engine.BranchNode]int)
	tree := &Tree{}

	var walk func(n *engine.BranchNode) int
	walk = func(n *engine.BranchNode) int {
		if i, ok := index[n]; ok {
			return i
		}
		i := len(tree.Nodes)
		index[n] = i
		tree.Nodes = append(tree.Nodes, TreeNode{Commit: n.Commit})
		for _, p := range n.Parents {
			pi := walk(p)
			tree.Nodes[i].Parents = append(tree.Nodes[i].Parents, pi)
		}
		return i
	}

	tree.Top = walk(root)
	return tree
}

// DecodeTree rebuilds a BranchNode tree from its journal form. Returns nil
// for a nil tree.
func (t *Tree) Decode() *engine.BranchNode {
	if t == nil || len(t.Nodes) == 0 {
		return nil
	}

	nodes := make([]*engine.BranchNode, len(t.Nodes))
	for i, tn := range t.Nodes {
		nodes[i] = &engine.BranchNode{Commit: tn.Commit}
	}
	for i, tn := range t.Nodes {
		for _, pi := range tn.Parents {
			if pi < 0 || pi >= len(nodes) {
				return nil
			}
			nodes[i].Parents = append(nodes[i].Parents, nodes[pi])
		}
	}
	if t.Top < 0 || t.Top >= len(nodes) {
		return nil
	}
	return nodes[t.Top]
}

// Journal is an open run journal
type Journal struct {
	db *bbolt.DB
}

// Path returns the journal database path for a repository
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", "graft", "journal.db")
}

// Open opens (creating if needed) the journal for a repository
func Open(repoRoot string) (*Journal, error) {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(BucketRuns); e != nil {
			return e
		}
		if _, e := tx.CreateBucketIfNotExists(BucketByTime); e != nil {
			return e
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare journal: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records one run
func (j *Journal) Append(record *Record) error {
	if record.ID == "" {
		return fmt.Errorf("record has no id")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	compressed, err := compress(payload)
	if err != nil {
		return err
	}

	timeKey := record.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + record.ID

	return j.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(BucketRuns).Put([]byte(record.ID), compressed); err != nil {
			return err
		}
		return tx.Bucket(BucketByTime).Put([]byte(timeKey), []byte(record.ID))
	})
}

// Get loads one run by id. A unique id prefix is accepted.
func (j *Journal) Get(id string) (*Record, error) {
	var compressed []byte
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(BucketRuns).Cursor()
		k, v := c.Seek([]byte(id))
		if k == nil || !bytes.HasPrefix(k, []byte(id)) {
			return fmt.Errorf("run %s not found", id)
		}
		if string(k) != id {
			if next, _ := c.Next(); next != nil && bytes.HasPrefix(next, []byte(id)) {
				return fmt.Errorf("run id %s is ambiguous", id)
			}
		}
		compressed = append(compressed, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload, err := decompress(compressed)
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &record, nil
}

// Recent returns up to limit runs, newest first
func (j *Journal) Recent(limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}

	var ids []string
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(BucketByTime).Cursor()
		for k, v := c.Last(); k != nil && len(ids) < limit; k, v = c.Prev() {
			ids = append(ids, string(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record, err := j.Get(id)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := enc.Write(payload); err != nil {
		return nil, fmt.Errorf("zstd write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("zstd close: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	payload, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("read zstd payload: %w", err)
	}
	return payload, nil
}
