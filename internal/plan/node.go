package plan

import "context"

// Node is a single vertex of a plan tree. The three implementations (Step,
// Chain and Parallel) form a closed set; consumers dispatch over them with
// an exhaustive type switch rather than extending the interface.
type Node interface {
	node()
}

// TaskFunc is the unit of work a Step performs when executed locally.
type TaskFunc func(ctx context.Context) error

// Task identifies the work a Step performs. Handler names the callable on
// the backend side; Args and Kwargs are passed through to the backend
// unexamined. Func, when set, is what the local executor invokes; plans
// loaded from configuration leave it nil and bind a function by handler name
// at run time.
type Task struct {
	Handler string
	Args    []any
	Kwargs  map[string]any
	Func    TaskFunc
}

// Resources supplies the scheduler parameters for a single Step. The core
// only ever reads the wall-time field; everything else passes through to the
// backend untouched.
type Resources interface {
	// WallTime returns the requested wall-clock limit as a string, and
	// whether one is present at all.
	WallTime() (string, bool)
	// Params returns the backend submission parameters.
	Params() map[string]any
}

// Step is a leaf unit of work, submitted as a single job. Name doubles as
// the remote job name; uniqueness is not enforced.
type Step struct {
	Name string
	Task Task
	Res  Resources
}

// Chain is an ordered sequence of nodes. Children run strictly one after
// another; each child's predecessor set is the terminal handle set of the
// previous child.
type Chain struct {
	Nodes []Node
}

// Parallel is an unordered collection of nodes. All children become eligible
// to run simultaneously once their shared predecessor set is satisfied.
type Parallel struct {
	Nodes []Node
}

func (*Step) node()     {}
func (*Chain) node()    {}
func (*Parallel) node() {}

// NewStep builds a leaf node.
func NewStep(name string, task Task, res Resources) *Step {
	return &Step{Name: name, Task: task, Res: res}
}

// NewChain builds an ordered sequence node.
func NewChain(nodes ...Node) *Chain {
	return &Chain{Nodes: nodes}
}

// NewParallel builds a fan-out node.
func NewParallel(nodes ...Node) *Parallel {
	return &Parallel{Nodes: nodes}
}
