package browser

import "fmt"

// Review pages through the resolved URLs of one client folder.
type Review struct {
	folder string
	urls   []string
	index  int
}

func newReview(folder string, urls []string) *Review {
	return &Review{folder: folder, urls: append([]string(nil), urls...)}
}

func (r *Review) Folder() string { return r.folder }

func (r *Review) URLs() []string { return append([]string(nil), r.urls...) }

func (r *Review) Len() int { return len(r.urls) }

func (r *Review) Index() int { return r.index }

// Current returns the URL under the cursor.
func (r *Review) Current() (string, bool) {
	if len(r.urls) == 0 {
		return "", false
	}
	return r.urls[r.index], true
}

// Next advances the cursor, wrapping to the first URL.
func (r *Review) Next() {
	if len(r.urls) == 0 {
		return
	}
	r.index = (r.index + 1) % len(r.urls)
}

// Prev moves the cursor back, wrapping to the last URL.
func (r *Review) Prev() {
	if len(r.urls) == 0 {
		return
	}
	r.index = (r.index - 1 + len(r.urls)) % len(r.urls)
}

// Select moves the cursor to i.
func (r *Review) Select(i int) error {
	if i < 0 || i >= len(r.urls) {
		return fmt.Errorf("review index %d out of range [0,%d)", i, len(r.urls))
	}
	r.index = i
	return nil
}
