package workspace

import (
	"sync"
	"time"
)

// Debouncer runs the last task triggered for a key once the key has been
// quiet for the configured delay
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	tasks   map[string]*debounceTask
	stopped bool
}

type debounceTask struct {
	timer *time.Timer
	fn    func()
}

// NewDebouncer creates a debouncer with a fixed quiet period
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay: delay,
		tasks: make(map[string]*debounceTask),
	}
}

// Trigger (re)arms the timer for key. A pending task for the key is replaced.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if prev, ok := d.tasks[key]; ok {
		prev.timer.Stop()
	}
	task := &debounceTask{fn: fn}
	task.timer = time.AfterFunc(d.delay, func() { d.fire(key, task) })
	d.tasks[key] = task
}

// Cancel drops the pending task for key and reports whether there was one
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	task, ok := d.tasks[key]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(d.tasks, key)
	return true
}

// Flush runs the pending task for key now, on the calling goroutine
func (d *Debouncer) Flush(key string) bool {
	d.mu.Lock()
	task, ok := d.tasks[key]
	if ok {
		task.timer.Stop()
		delete(d.tasks, key)
	}
	d.mu.Unlock()

	if ok {
		task.fn()
	}
	return ok
}

// Pending reports whether a task is armed for key
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.tasks[key]
	return ok
}

// Stop cancels every pending task and ignores later triggers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, task := range d.tasks {
		task.timer.Stop()
		delete(d.tasks, key)
	}
}

func (d *Debouncer) fire(key string, task *debounceTask) {
	d.mu.Lock()
	if d.tasks[key] != task {
		// superseded or cancelled after the timer had already fired
		d.mu.Unlock()
		return
	}
	delete(d.tasks, key)
	d.mu.Unlock()

	task.fn()
}
