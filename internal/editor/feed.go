package editor

import "sync"

// Feed fans frames out to subscribers. A subscriber that falls behind
// misses frames rather than stalling the writer.
type Feed struct {
	mu     sync.Mutex
	seq    uint64
	nextID int
	subs   map[int]chan Frame
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan Frame)}
}

// Subscribe returns a channel of frames and a function that ends the
// subscription and closes the channel.
func (f *Feed) Subscribe(buffer int) (<-chan Frame, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan Frame, buffer)

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Publish stamps the next sequence number on fr and delivers it.
func (f *Feed) Publish(fr Frame) Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	fr.Seq = f.seq
	for _, ch := range f.subs {
		select {
		case ch <- fr:
		default:
		}
	}
	return fr
}

// Seq is the sequence number of the last published frame.
func (f *Feed) Seq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seq
}
