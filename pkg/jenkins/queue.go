package jenkins

import (
	"context"
	"fmt"
	"time"
)

// QueueClient is a client for the queue API.
type QueueClient struct {
	client *Client
}

// Queue wraps the decoded build queue.
type Queue struct {
	Raw    *QueueResponse
	client *Client
}

// JobQueue wraps a single queue item.
type JobQueue struct {
	Raw    *QueueItem
	client *Client
}

// Get fetches the build queue.
func (c *QueueClient) Get(ctx context.Context) (*Queue, error) {
	result := &QueueResponse{}

	if err := c.client.getJSON(ctx, "queue/api/json", result); err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}

	return &Queue{
		Raw:    result,
		client: c.client,
	}, nil
}

// Cancel removes an item from the queue.
func (c *QueueClient) Cancel(ctx context.Context, item *JobQueue) error {
	if err := c.client.post(ctx, fmt.Sprintf("queue/item/%d/cancelQueue", item.ID()), "", nil); err != nil {
		return fmt.Errorf("failed to cancel queue item #%d: %w", item.ID(), err)
	}

	return nil
}

// Items returns the pending build requests.
func (q *Queue) Items() []*JobQueue {
	result := make([]*JobQueue, 0, len(q.Raw.Items))

	for i := range q.Raw.Items {
		result = append(result, &JobQueue{
			Raw:    &q.Raw.Items[i],
			client: q.client,
		})
	}

	return result
}

// ID returns the queue item id.
func (j *JobQueue) ID() int64 {
	return j.Raw.ID
}

// JobName returns the name of the queued job.
func (j *JobQueue) JobName() string {
	return j.Raw.Task.Name
}

// Why returns the reason the item is still waiting.
func (j *JobQueue) Why() string {
	return j.Raw.Why
}

// InQueueSince returns the time the item entered the queue.
func (j *JobQueue) InQueueSince() time.Time {
	return time.UnixMilli(j.Raw.InQueueSince)
}

// Parameters returns the input parameters of the queued build.
func (j *JobQueue) Parameters() map[string]any {
	return actionParameters(j.Raw.Actions)
}

// Cancel removes the item from the queue.
func (j *JobQueue) Cancel(ctx context.Context) error {
	return j.client.Queue.Cancel(ctx, j)
}
