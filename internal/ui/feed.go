package ui

import "todo_app/internal/models"

// Feed is a RenderHost that queues snapshots for a consumer running on
// another goroutine. Render never blocks: when the consumer falls behind, the
// oldest queued snapshot is dropped, since each one is a full ViewState.
type Feed chan models.ViewState

// NewFeed returns a Feed holding up to size pending snapshots.
func NewFeed(size int) Feed {
	if size < 1 {
		size = 1
	}
	return make(Feed, size)
}

func (f Feed) Render(vs models.ViewState) {
	for {
		select {
		case f <- vs:
			return
		default:
		}
		select {
		case <-f:
		default:
		}
	}
}
