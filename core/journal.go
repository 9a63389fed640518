package core

import (
	"fmt"
	"sync"

	"github.com/searchktools/mock-server/core/http"
	"github.com/searchktools/mock-server/core/queue"
)

// journal pairs the response queue filled by the test goroutine with the
// request log filled by the network goroutine. One lock guards both; it is
// only held for O(1) queue operations, never across I/O.
type journal struct {
	mu        sync.Mutex
	responses *queue.FIFO[*http.Response]
	requests  *queue.FIFO[*http.Request]
	errs      []error
}

func newJournal() *journal {
	return &journal{
		responses: queue.New[*http.Response](16),
		requests:  queue.New[*http.Request](16),
	}
}

func (j *journal) enqueue(resp *http.Response) {
	j.mu.Lock()
	j.responses.Push(resp)
	j.mu.Unlock()
}

// exchange records req and pops the response to send for it. The request
// stays recorded even when no response is available.
func (j *journal) exchange(req *http.Request) (*http.Response, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.requests.Push(req)
	resp, err := j.responses.Pop()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNoResponse, req, err)
	}
	return resp, nil
}

func (j *journal) take() (*http.Request, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	req, err := j.requests.Pop()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRequest, err)
	}
	return req, nil
}

// drain removes and returns every unread request
func (j *journal) drain() []*http.Request {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.requests.Drain()
}

func (j *journal) recordError(err error) {
	j.mu.Lock()
	j.errs = append(j.errs, err)
	j.mu.Unlock()
}

func (j *journal) errors() []error {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]error, len(j.errs))
	copy(out, j.errs)
	return out
}

// pending returns the number of queued responses and unread requests
func (j *journal) pending() (responses, requests int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.responses.Len(), j.requests.Len()
}
