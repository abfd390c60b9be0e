package sv92

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// LogicalNode is a named grouping of SampledValueControlBlocks: a naming
// label only, with no algorithmic content of its own.
type LogicalNode struct {
	Name string

	mu    sync.RWMutex
	svcbs map[string]*SampledValueControlBlock
}

func newLogicalNode(name string) *LogicalNode {
	return &LogicalNode{Name: name, svcbs: make(map[string]*SampledValueControlBlock)}
}

// AddSVCB registers svcb under its own Name, failing if that name is
// already taken within this logical node.
func (l *LogicalNode) AddSVCB(svcb *SampledValueControlBlock) error {
	if err := svcb.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.svcbs[svcb.Name]; exists {
		return fmt.Errorf("%w: svcb %q in logical node %q", ErrNameAlreadyTaken, svcb.Name, l.Name)
	}
	l.svcbs[svcb.Name] = svcb
	return nil
}

// SVCB looks up a previously registered SampledValueControlBlock by name.
func (l *LogicalNode) SVCB(name string) (*SampledValueControlBlock, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	svcb, ok := l.svcbs[name]
	return svcb, ok
}

// SVCBs returns a snapshot of all registered control blocks.
func (l *LogicalNode) SVCBs() []*SampledValueControlBlock {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*SampledValueControlBlock, 0, len(l.svcbs))
	for _, svcb := range l.svcbs {
		out = append(out, svcb)
	}
	return out
}

// Model is the IED naming container: an owning, cycle-free tree of named
// LogicalNodes, each owning named SampledValueControlBlocks. It carries no
// protocol behavior of its own — the shared-pointer object graph in the
// original implementation is realized here as plain maps keyed by name.
type Model struct {
	ID   uuid.UUID
	Name string

	mu    sync.RWMutex
	nodes map[string]*LogicalNode
}

// NewModel returns an empty, named Model with a fresh identity, logged at
// creation for correlating multiple runtime instances of the same name.
func NewModel(name string) *Model {
	m := &Model{ID: uuid.New(), Name: name, nodes: make(map[string]*LogicalNode)}
	_lg.Infof("sv92: created model %q (%s)", name, m.ID)
	return m
}

// AddLogicalNode creates and registers a new LogicalNode under name,
// failing if that name is already taken within this model.
func (m *Model) AddLogicalNode(name string) (*LogicalNode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.nodes[name]; exists {
		return nil, fmt.Errorf("%w: logical node %q in model %q", ErrNameAlreadyTaken, name, m.Name)
	}
	node := newLogicalNode(name)
	m.nodes[name] = node
	return node, nil
}

// LogicalNode looks up a previously registered LogicalNode by name.
func (m *Model) LogicalNode(name string) (*LogicalNode, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, ok := m.nodes[name]
	return node, ok
}

// LogicalNodes returns a snapshot of all registered logical nodes.
func (m *Model) LogicalNodes() []*LogicalNode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*LogicalNode, 0, len(m.nodes))
	for _, node := range m.nodes {
		out = append(out, node)
	}
	return out
}

// FindSVCB searches every logical node in the model for a control block
// named svcbName, returning the first match. It exists for callers (e.g. a
// subscriber registry) that care about the control block but not which
// logical node it was filed under.
func (m *Model) FindSVCB(svcbName string) (*SampledValueControlBlock, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, node := range m.nodes {
		if svcb, ok := node.SVCB(svcbName); ok {
			return svcb, true
		}
	}
	return nil, false
}
