package commands

import "sync"

// Line is one entry of the command line transcript: the echoed input and
// its output. A pending line is waiting for an asynchronous result
type Line struct {
	ID      int
	Command string
	Output  string
	Pending bool
	Error   bool
}

// Transcript is the scrollback of the command line overlay
type Transcript struct {
	sync.Mutex
	lines     []Line
	nextLine  int
	observers map[int]func([]Line)
	nextID    int
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{observers: make(map[int]func([]Line))}
}

// Append adds a line and returns its id
func (t *Transcript) Append(command string, output string, pending bool) int {
	t.Lock()
	t.nextLine++
	id := t.nextLine
	t.lines = append(t.lines, Line{
		ID:      id,
		Command: command,
		Output:  output,
		Pending: pending,
	})
	snapshot := t.copyLocked()
	t.Unlock()

	t.notify(snapshot)
	return id
}

// Resolve replaces the output of a pending line.
// Lines removed by Clear in the meantime are ignored
func (t *Transcript) Resolve(id int, output string, failed bool) {
	t.Lock()
	found := false
	for i := range t.lines {
		if t.lines[i].ID == id {
			t.lines[i].Output = output
			t.lines[i].Pending = false
			t.lines[i].Error = failed
			found = true
			break
		}
	}
	snapshot := t.copyLocked()
	t.Unlock()

	if found {
		t.notify(snapshot)
	}
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.Lock()
	t.lines = nil
	t.Unlock()

	t.notify(nil)
}

// Lines gets a copy of every line
func (t *Transcript) Lines() []Line {
	t.Lock()
	defer t.Unlock()

	return t.copyLocked()
}

// Subscribe registers an observer called with the lines after every change.
// Calling the returned function removes it
func (t *Transcript) Subscribe(fn func([]Line)) func() {
	t.Lock()
	defer t.Unlock()

	id := t.nextID
	t.nextID++
	t.observers[id] = fn

	return func() {
		t.Lock()
		defer t.Unlock()
		delete(t.observers, id)
	}
}

func (t *Transcript) copyLocked() []Line {
	return append([]Line{}, t.lines...)
}

func (t *Transcript) notify(snapshot []Line) {
	t.Lock()
	observers := make([]func([]Line), 0, len(t.observers))
	for _, fn := range t.observers {
		observers = append(observers, fn)
	}
	t.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
