package extractor

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct messages whose results are kept.
const DefaultCacheSize = 1024

// WorkerPool extracts entities from many messages or files in parallel.
// Workers share one ValidatingExtractor; results for repeated message text
// are served from an LRU cache.
type WorkerPool struct {
	ctx            context.Context
	tasks          chan Task
	results        chan TaskResult
	progressChan   chan ProgressUpdate
	cancel         context.CancelFunc
	extractor      *ValidatingExtractor
	cache          *lru.Cache[string, ExtractResult]
	wg             sync.WaitGroup
	options        PoolOptions
	totalTasks     int
	completedTasks int
	cacheHits      int
	mu             sync.RWMutex
}

// PoolOptions configures a WorkerPool.
type PoolOptions struct {
	Workers   int
	CacheSize int
	Federated bool
}

// Task is one message or one file to process. Filename takes precedence
// over Text.
type Task struct {
	ID       string
	Index    int
	Text     string
	Filename string
	Format   InputFormat
}

// TaskResult is the outcome of a Task. Document is set for file tasks.
type TaskResult struct {
	Error    error
	Document *DocumentResult
	Task     Task
	Result   ExtractResult
	Cached   bool
}

// ProgressUpdate provides progress information.
type ProgressUpdate struct {
	TaskID      string
	Filename    string
	Status      TaskStatus
	Message     string
	Completed   int
	Total       int
	ElapsedTime time.Duration
}

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// NewWorkerPool creates a worker pool bound to ctx.
func NewWorkerPool(ctx context.Context, v *ValidatingExtractor, options PoolOptions) (*WorkerPool, error) {
	if options.Workers <= 0 {
		options.Workers = 4
	}
	if options.CacheSize <= 0 {
		options.CacheSize = DefaultCacheSize
	}
	if v == nil {
		v = NewValidating(nil, DefaultOptions())
	}

	cache, err := lru.New[string, ExtractResult](options.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		options:      options,
		extractor:    v,
		cache:        cache,
		tasks:        make(chan Task, options.Workers*2),
		results:      make(chan TaskResult, options.Workers*2),
		progressChan: make(chan ProgressUpdate, 100),
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.options.Workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case task, ok := <-wp.tasks:
			if !ok {
				return
			}
			wp.processTask(workerID, task)
		}
	}
}

func (wp *WorkerPool) processTask(workerID int, task Task) {
	start := time.Now()

	wp.sendProgress(ProgressUpdate{
		TaskID:   task.ID,
		Filename: task.Filename,
		Status:   TaskStatusProcessing,
		Message:  fmt.Sprintf("Worker %d started processing", workerID),
	})

	res := TaskResult{Task: task}
	if task.Filename != "" {
		res.Document, res.Result, res.Error = wp.processFile(task)
	} else {
		res.Result, res.Cached = wp.extract(task.Text)
	}
	elapsed := time.Since(start)

	wp.mu.Lock()
	wp.completedTasks++
	if res.Cached {
		wp.cacheHits++
	}
	completed := wp.completedTasks
	total := wp.totalTasks
	wp.mu.Unlock()

	status := TaskStatusCompleted
	message := fmt.Sprintf("Worker %d completed in %v", workerID, elapsed)
	if res.Error != nil {
		status = TaskStatusFailed
		message = fmt.Sprintf("Worker %d failed: %v", workerID, res.Error)
	}

	wp.sendProgress(ProgressUpdate{
		TaskID:      task.ID,
		Filename:    task.Filename,
		Status:      status,
		Completed:   completed,
		Total:       total,
		ElapsedTime: elapsed,
		Message:     message,
	})

	select {
	case wp.results <- res:
	case <-wp.ctx.Done():
	}
}

func (wp *WorkerPool) processFile(task Task) (*DocumentResult, ExtractResult, error) {
	start := time.Now()
	format := task.Format
	if format == InputAuto || format == "" {
		format = DetectInputFormat(task.Filename)
	}

	body, err := LoadText(task.Filename, format)
	if err != nil {
		return nil, ExtractResult{}, err
	}
	result, _ := wp.extract(body)

	doc := &DocumentResult{
		Filename:  task.Filename,
		Format:    format,
		TotalText: utf8.RuneCountInString(body),
		Entities:  result.Entities,
		Summary:   Summarize(result.Entities),
	}
	if len(result.Entities) == 0 {
		doc.Warnings = append(doc.Warnings, "no entities found")
	}
	doc.ProcessTime = time.Since(start)
	return doc, result, nil
}

// extract runs the configured query, consulting the cache first.
func (wp *WorkerPool) extract(text string) (ExtractResult, bool) {
	if cached, ok := wp.cache.Get(text); ok {
		return cached, true
	}

	var result ExtractResult
	if wp.options.Federated {
		result = wp.extractor.ExtractFederatedEntitiesWithIndices(text)
	} else {
		result = wp.extractor.ExtractEntitiesWithIndices(text)
	}
	wp.cache.Add(text, result)
	return result, false
}

// sendProgress sends a progress update unless the channel is full.
func (wp *WorkerPool) sendProgress(update ProgressUpdate) {
	select {
	case wp.progressChan <- update:
	default:
	}
}

// SubmitTask queues a task. It blocks while the queue is full.
func (wp *WorkerPool) SubmitTask(task Task) {
	wp.mu.Lock()
	wp.totalTasks++
	wp.mu.Unlock()

	wp.sendProgress(ProgressUpdate{
		TaskID:   task.ID,
		Filename: task.Filename,
		Status:   TaskStatusPending,
		Message:  "Task queued for processing",
	})

	select {
	case wp.tasks <- task:
	case <-wp.ctx.Done():
	}
}

// SubmitBatch submits multiple tasks at once.
func (wp *WorkerPool) SubmitBatch(tasks []Task) {
	for _, task := range tasks {
		wp.SubmitTask(task)
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan TaskResult {
	return wp.results
}

// Progress returns the progress channel.
func (wp *WorkerPool) Progress() <-chan ProgressUpdate {
	return wp.progressChan
}

// Wait closes the task queue, waits for the workers and closes the output
// channels.
func (wp *WorkerPool) Wait() {
	close(wp.tasks)
	wp.wg.Wait()
	close(wp.results)
	close(wp.progressChan)
}

// Shutdown cancels outstanding work and waits for the workers.
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

// GetStats returns current processing statistics.
func (wp *WorkerPool) GetStats() WorkerPoolStats {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	return WorkerPoolStats{
		TotalTasks:     wp.totalTasks,
		CompletedTasks: wp.completedTasks,
		PendingTasks:   wp.totalTasks - wp.completedTasks,
		CacheHits:      wp.cacheHits,
		NumWorkers:     wp.options.Workers,
	}
}

// WorkerPoolStats provides statistics about the worker pool.
type WorkerPoolStats struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	PendingTasks   int `json:"pending_tasks"`
	CacheHits      int `json:"cache_hits"`
	NumWorkers     int `json:"num_workers"`
}

// RunBatch processes tasks with a temporary pool and returns the results
// ordered by Task.Index. Progress updates are passed to onProgress when it
// is not nil.
func RunBatch(ctx context.Context, v *ValidatingExtractor, options PoolOptions, tasks []Task, onProgress func(ProgressUpdate)) ([]TaskResult, WorkerPoolStats, error) {
	wp, err := NewWorkerPool(ctx, v, options)
	if err != nil {
		return nil, WorkerPoolStats{}, err
	}

	results := wp.Run(tasks, onProgress)
	if err := ctx.Err(); err != nil {
		return results, wp.GetStats(), fmt.Errorf("batch interrupted: %w", err)
	}
	return results, wp.GetStats(), nil
}

// Run starts the workers, processes tasks and returns the results ordered
// by Task.Index. The pool is closed and its context released afterwards, so
// Run may only be called once.
func (wp *WorkerPool) Run(tasks []Task, onProgress func(ProgressUpdate)) []TaskResult {
	defer wp.cancel()
	wp.Start()

	var progressDone sync.WaitGroup
	progressDone.Add(1)
	go func() {
		defer progressDone.Done()
		for update := range wp.Progress() {
			if onProgress != nil {
				onProgress(update)
			}
		}
	}()

	go func() {
		wp.SubmitBatch(tasks)
		wp.Wait()
	}()

	results := make([]TaskResult, 0, len(tasks))
	for res := range wp.Results() {
		results = append(results, res)
	}
	progressDone.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].Task.Index < results[j].Task.Index
	})
	return results
}

// ProgressTracker tracks and reports progress for a batch of tasks.
type ProgressTracker struct {
	startTime    time.Time
	lastUpdate   time.Time
	taskStatuses map[string]TaskStatus
	updateCount  int
	mu           sync.RWMutex
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		startTime:    time.Now(),
		lastUpdate:   time.Now(),
		taskStatuses: make(map[string]TaskStatus),
	}
}

// Update records a progress update.
func (pt *ProgressTracker) Update(update ProgressUpdate) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.taskStatuses[update.TaskID] = update.Status
	pt.lastUpdate = time.Now()
	pt.updateCount++
}

// GetSummary returns a summary of the current progress.
func (pt *ProgressTracker) GetSummary() ProgressSummary {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	summary := ProgressSummary{
		StartTime:    pt.startTime,
		LastUpdate:   pt.lastUpdate,
		ElapsedTime:  time.Since(pt.startTime),
		UpdateCount:  pt.updateCount,
		StatusCounts: make(map[TaskStatus]int),
	}

	for _, status := range pt.taskStatuses {
		summary.StatusCounts[status]++
	}

	summary.TotalTasks = len(pt.taskStatuses)

	return summary
}

// ProgressSummary provides a summary of progress tracking.
type ProgressSummary struct {
	StartTime    time.Time          `json:"start_time"`
	LastUpdate   time.Time          `json:"last_update"`
	StatusCounts map[TaskStatus]int `json:"status_counts"`
	ElapsedTime  time.Duration      `json:"elapsed_time"`
	UpdateCount  int                `json:"update_count"`
	TotalTasks   int                `json:"total_tasks"`
}

// PrintProgress writes a one-line progress report to w.
func (pt *ProgressTracker) PrintProgress(w io.Writer) {
	summary := pt.GetSummary()

	completed := summary.StatusCounts[TaskStatusCompleted]
	failed := summary.StatusCounts[TaskStatusFailed]
	processing := summary.StatusCounts[TaskStatusProcessing]
	pending := summary.StatusCounts[TaskStatusPending]

	fmt.Fprintf(w, "\rProgress: %d/%d completed", completed, summary.TotalTasks)

	if failed > 0 {
		fmt.Fprintf(w, " (%d failed)", failed)
	}
	if processing > 0 {
		fmt.Fprintf(w, " (%d processing)", processing)
	}
	if pending > 0 {
		fmt.Fprintf(w, " (%d pending)", pending)
	}

	if summary.TotalTasks > 0 {
		percentage := float64(completed+failed) / float64(summary.TotalTasks) * 100
		fmt.Fprintf(w, " [%.1f%%]", percentage)
	}

	fmt.Fprintf(w, " [%v elapsed", summary.ElapsedTime.Round(time.Second))
	if left := pt.EstimateCompletion(); left > 0 {
		fmt.Fprintf(w, ", ~%v left", left.Round(time.Second))
	}
	fmt.Fprint(w, "]")
}

// EstimateCompletion estimates the time left for the batch.
func (pt *ProgressTracker) EstimateCompletion() time.Duration {
	summary := pt.GetSummary()

	completed := summary.StatusCounts[TaskStatusCompleted]
	if completed == 0 || summary.TotalTasks == 0 {
		return 0
	}

	avgTimePerTask := summary.ElapsedTime / time.Duration(completed)
	remaining := summary.TotalTasks - completed

	return avgTimePerTask * time.Duration(remaining)
}
